package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"standardtime/internal/domain"
)

// memoryRepo is the in-memory fake used by tests.
type memoryRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	numbers map[string]struct{}
}

func NewMemory() Repository {
	return &memoryRepo{
		orders:  make(map[string]*domain.Order),
		numbers: make(map[string]struct{}),
	}
}

func (r *memoryRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.numbers[o.OrderNumber]; taken {
		return nil, domain.ErrAlreadyExists
	}
	now := time.Now().UTC()
	o.ID = uuid.NewString()
	o.Status = domain.StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now
	r.orders[o.ID] = &o
	r.numbers[o.OrderNumber] = struct{}{}
	out := o
	return &out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *o
	return &out, nil
}

func (r *memoryRepo) ListByStatus(_ context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[domain.OrderStatus]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}
	var out []domain.Order
	for _, o := range r.orders {
		if len(want) > 0 {
			if _, ok := want[o.Status]; !ok {
				continue
			}
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) ListByProfile(_ context.Context, profileID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.ProfileID != nil && *o.ProfileID == profileID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	o.Status = status
	o.UpdatedAt = now
	switch status {
	case domain.StatusConfirmed:
		o.ConfirmedAt = &now
	case domain.StatusPhotosSent:
		o.PhotosSentAt = &now
	case domain.StatusShipped:
		o.ShippedAt = &now
	case domain.StatusDelivered:
		o.DeliveredAt = &now
	}
	out := *o
	return &out, nil
}

func (r *memoryRepo) SetTracking(_ context.Context, id, trackingNumber string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now().UTC()
	out := *o
	return &out, nil
}
