package order

import (
	"context"

	"standardtime/internal/domain"
)

type Repository interface {
	// Create inserts a new order. Returns domain.ErrAlreadyExists when the
	// order number collides, so callers can regenerate and retry.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByStatus returns orders in any of the given statuses, newest
	// first. An empty status list returns all orders.
	ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error)
	// ListByProfile returns the profile's own orders, newest first.
	ListByProfile(ctx context.Context, profileID string) ([]domain.Order, error)
	// UpdateStatus writes the new status and stamps its transition
	// timestamp column.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	// SetTracking sets or replaces the tracking number at any status.
	SetTracking(ctx context.Context, id, trackingNumber string) (*domain.Order, error)
}
