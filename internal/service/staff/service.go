package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/repository"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/activity"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/security"
)

// SessionRevoker invalidates every session a user holds.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	sessions SessionRevoker
	activity *activity.Service
	logger   zerolog.Logger
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, sessions SessionRevoker,
	activitySvc *activity.Service, logger zerolog.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		activity: activitySvc,
		logger:   logger.With().Str("component", "staff").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]model.Profile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Profile, len(users))
	for i, u := range users {
		out[i] = u.Profile()
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.Profile, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, apperrors.Validation("staff id is required", nil)
	}
	if !req.Role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown role %q", req.Role), nil)
	}
	if _, err := s.userRepo.GetByID(ctx, id); err == nil {
		return nil, apperrors.DuplicateID("staff id", id)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordShort) {
			return nil, apperrors.Validation(fmt.Sprintf("password must be at least %d characters", security.MinPasswordLen), err)
		}
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         req.Role,
		Department:   strings.TrimSpace(req.Department),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("staff_id", id).Str("role", string(user.Role)).Msg("staff member added")
	if err := s.activity.Record(ctx, model.ActivityStaff, activity.IconStaffAdd,
		fmt.Sprintf("New staff member %s was added.", user.Name)); err != nil {
		return nil, apperrors.Internal(err)
	}
	p := user.Profile()
	return &p, nil
}

// Update applies the patch. Tokens carry the member's name, role and
// department, so changing any of them revokes the member's sessions.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateStaffRequest) (*model.Profile, error) {
	patch := req.Patch()
	if patch.Name == nil && patch.Role == nil && patch.Department == nil {
		return nil, apperrors.Validation("at least one of name, role or department is required", nil)
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("unknown role %q", *patch.Role), nil)
	}

	before, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if user.Role != before.Role || user.Name != before.Name || user.Department != before.Department {
		if err := s.sessions.RevokeUser(ctx, id); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("staff_id", id).Msg("staff member updated")
	if err := s.activity.Record(ctx, model.ActivityStaff, activity.IconStaffEdit,
		fmt.Sprintf("Staff member %s was updated.", user.Name)); err != nil {
		return nil, apperrors.Internal(err)
	}
	p := user.Profile()
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.RevokeUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("staff_id", id).Msg("staff member deleted")
	if err := s.activity.Record(ctx, model.ActivityStaff, activity.IconStaffDelete,
		fmt.Sprintf("Staff member %s was deleted.", user.Name)); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}

// NonAdmins lists every member who is not an administrator, in list order.
func (s *Service) NonAdmins(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.Role != model.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}
