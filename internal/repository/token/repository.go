package token

import (
	"context"
	"time"
)

// Token is an opaque access token bound to a profile.
type Token struct {
	Token     string
	ProfileID string
	Kind      string
	ExpiresAt time.Time
}

type Repository interface {
	// Create stores a token; domain.ErrAlreadyExists on collision.
	Create(ctx context.Context, t Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
