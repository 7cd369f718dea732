package token

import (
	"context"
	"sync"

	"standardtime/internal/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	tokens map[string]Token
}

// NewMemory returns the in-memory fake used by tests.
func NewMemory() Repository {
	return &memoryRepo{tokens: make(map[string]Token)}
}

func (r *memoryRepo) Create(_ context.Context, t Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.tokens[t.Token]; taken {
		return domain.ErrAlreadyExists
	}
	r.tokens[t.Token] = t
	return nil
}

func (r *memoryRepo) Get(_ context.Context, token string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := t
	return &out, nil
}

func (r *memoryRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
