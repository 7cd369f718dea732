package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"standardtime/internal/domain"
)

// memoryRepo is the in-memory fake used by tests and local development.
type memoryRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart // keyed by owner key
	byID  map[string]*domain.Cart
}

func NewMemory() Repository {
	return &memoryRepo{
		carts: make(map[string]*domain.Cart),
		byID:  make(map[string]*domain.Cart),
	}
}

func (r *memoryRepo) GetOrCreate(_ context.Context, ownerKey string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[ownerKey]
	if !ok {
		c = &domain.Cart{
			ID:        uuid.NewString(),
			OwnerKey:  ownerKey,
			CreatedAt: time.Now().UTC(),
		}
		r.carts[ownerKey] = c
		r.byID[c.ID] = c
	}
	return copyCart(c), nil
}

func (r *memoryRepo) AddLine(_ context.Context, cartID string, in AddLineInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range c.Lines {
		if c.Lines[i].WatchID == in.WatchID {
			c.Lines[i].Quantity += in.Quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, domain.CartLine{
		ID:        uuid.NewString(),
		CartID:    cartID,
		WatchID:   in.WatchID,
		Brand:     in.Brand,
		Model:     in.Model,
		Year:      in.Year,
		Price:     in.Price,
		Image:     in.Image,
		Condition: in.Condition,
		Quantity:  in.Quantity,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *memoryRepo) SetQuantity(_ context.Context, cartID string, watchID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range c.Lines {
		if c.Lines[i].WatchID == watchID {
			c.Lines[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryRepo) RemoveLine(_ context.Context, cartID string, watchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range c.Lines {
		if c.Lines[i].WatchID == watchID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryRepo) Clear(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Lines = nil
	return nil
}

func copyCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = make([]domain.CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}
