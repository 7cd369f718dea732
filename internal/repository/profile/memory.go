package profile

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"standardtime/internal/domain"
)

type memoryRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Profile
	byEmail map[string]*domain.Profile
}

// NewMemory returns the in-memory fake used by tests.
func NewMemory() Repository {
	return &memoryRepo{
		byID:    make(map[string]*domain.Profile),
		byEmail: make(map[string]*domain.Profile),
	}
}

func (r *memoryRepo) Create(_ context.Context, in CreateInput) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[in.Email]; taken {
		return nil, domain.ErrAlreadyExists
	}
	p := &domain.Profile{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		DisplayName:  in.DisplayName,
		Phone:        in.Phone,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[p.ID] = p
	r.byEmail[p.Email] = p
	out := *p
	return &out, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, in UpdateInput) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.DisplayName != nil {
		p.DisplayName = *in.DisplayName
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	out := *p
	return &out, nil
}

func (r *memoryRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PasswordHash = passwordHash
	return nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}
