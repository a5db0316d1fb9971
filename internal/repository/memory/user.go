package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/security"
)

type UserRepository struct {
	mu     sync.RWMutex
	order  []string
	users  map[string]*model.User
	hasher security.PasswordHasher
}

func NewUserRepository(hasher security.PasswordHasher) *UserRepository {
	return &UserRepository{
		users:  make(map[string]*model.User),
		hasher: hasher,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("staff member")
	}
	return clone(u), nil
}

// FindByCredentials matches id exactly and verifies password against the
// stored hash. Unknown ids still pay for a hash comparison.
func (r *UserRepository) FindByCredentials(ctx context.Context, id, password string) (*model.User, error) {
	r.mu.RLock()
	u, ok := r.users[id]
	var hash string
	if ok {
		u = clone(u)
		hash = u.PasswordHash
	}
	r.mu.RUnlock()

	if err := r.hasher.Compare(hash, password); err != nil || !ok {
		return nil, apperrors.InvalidCredential(nil)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.users[id]))
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user == nil || user.ID == "" {
		return apperrors.Validation("staff id is required", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return apperrors.DuplicateID("staff id", user.ID)
	}
	r.users[user.ID] = clone(user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("staff member")
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Department != nil {
		u.Department = *patch.Department
	}
	return clone(u), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("staff member")
	}
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return u, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

func clone(u *model.User) *model.User {
	c := *u
	return &c
}
