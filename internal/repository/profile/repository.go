package profile

import (
	"context"

	"standardtime/internal/domain"
)

// CreateInput holds the fields persisted at signup.
type CreateInput struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Phone        string
}

// UpdateInput carries a partial profile edit; nil fields are left as-is.
type UpdateInput struct {
	DisplayName *string
	Phone       *string
	Address     *string
}

type Repository interface {
	// Create inserts a profile; domain.ErrAlreadyExists on a taken email.
	Create(ctx context.Context, in CreateInput) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Profile, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
