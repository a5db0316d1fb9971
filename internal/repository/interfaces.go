package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	FindByCredentials(ctx context.Context, id, password string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

type RoomRepository interface {
	List(ctx context.Context) ([]*model.Room, error)
	Get(ctx context.Context, id string) (*model.Room, error)
	Replace(ctx context.Context, id string, update model.RoomUpdate, at time.Time) (*model.Room, error)
	ReplaceAll(ctx context.Context, rooms []*model.Room) error
}

// MonthGenerator synthesizes a month the first time it is read.
type MonthGenerator func(year, month int) map[int]model.DaySchedule

type ScheduleRepository interface {
	GetOrCreate(ctx context.Context, year, month int, generate MonthGenerator) (*model.ScheduleMonth, error)
	Save(ctx context.Context, schedule *model.ScheduleMonth) error
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	// List returns requests in insertion order; an empty userID means all.
	List(ctx context.Context, userID string) ([]*model.Request, error)
}

type ActivityRepository interface {
	Record(ctx context.Context, entry model.ActivityEntry) error
	Recent(ctx context.Context, n int) ([]model.ActivityEntry, error)
}

// TokenRepository tracks revoked session tokens.
type TokenRepository interface {
	// RevokeToken marks a token id revoked until it would have expired anyway.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	// RevokeUser invalidates every token issued to userID at or before at.
	RevokeUser(ctx context.Context, userID string, at time.Time) error
	UserRevokedAt(ctx context.Context, userID string) (time.Time, bool, error)
}
