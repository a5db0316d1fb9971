package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	apperrors "github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

type RequestRepository struct {
	mu       sync.RWMutex
	requests []*model.Request
	ids      map[string]struct{}
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{ids: make(map[string]struct{})}
}

func (r *RequestRepository) Create(ctx context.Context, req *model.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.ids[req.ID]; dup {
		return apperrors.DuplicateID("request", req.ID)
	}
	c := cloneRequest(req)
	r.requests = append(r.requests, c)
	r.ids[req.ID] = struct{}{}
	return nil
}

func (r *RequestRepository) List(ctx context.Context, userID string) ([]*model.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Request, 0, len(r.requests))
	for _, req := range r.requests {
		if userID != "" && req.UserID != userID {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

func cloneRequest(req *model.Request) *model.Request {
	c := *req
	c.PreferredTime = copySlot(req.PreferredTime)
	return &c
}
