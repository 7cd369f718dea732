package orders

import (
	"context"
	"fmt"
	"strings"

	"standardtime/internal/domain"
	orderrepo "standardtime/internal/repository/order"
)

// Service is the admin order board: it exposes the legal lifecycle
// transitions and the tracking-number edit. Every transition is an explicit
// operator action; nothing moves automatically.
type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Pending lists orders awaiting confirmation, newest first.
func (s *Service) Pending(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListByStatus(ctx, domain.StatusPending)
}

// InProgress lists every confirmed-or-later order, newest first.
func (s *Service) InProgress(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListByStatus(ctx,
		domain.StatusConfirmed,
		domain.StatusPhotosSent,
		domain.StatusShipped,
		domain.StatusDelivered,
	)
}

// All lists every order regardless of status.
func (s *Service) All(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListByStatus(ctx)
}

// ForProfile lists the shopper's own orders, newest first.
func (s *Service) ForProfile(ctx context.Context, profileID string) ([]domain.Order, error) {
	return s.repo.ListByProfile(ctx, profileID)
}

// Advance moves an order to the requested status. Only the single next
// lifecycle step is legal; skipping ahead or moving backwards returns
// domain.ErrInvalidTransition and writes nothing.
func (s *Service) Advance(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := domain.NextStatus(current.Status)
	if next == "" || next != to {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, to)
	}
	return s.repo.UpdateStatus(ctx, id, to)
}

// Confirm is the pending -> confirmed shortcut used by the new-orders view.
func (s *Service) Confirm(ctx context.Context, id string) (*domain.Order, error) {
	return s.Advance(ctx, id, domain.StatusConfirmed)
}

// SetTracking sets or edits the tracking number. Legal at any status.
func (s *Service) SetTracking(ctx context.Context, id, trackingNumber string) (*domain.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, fmt.Errorf("tracking number required")
	}
	return s.repo.SetTracking(ctx, id, trackingNumber)
}
