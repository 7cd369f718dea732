package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"standardtime/internal/currency"
	"standardtime/internal/domain"
	cartrepo "standardtime/internal/repository/cart"
)

// Service applies cart semantics on top of the repository: duplicate adds
// increment quantity, and a quantity below one removes the line outright.
type Service struct {
	repo cartrepo.Repository
}

func New(repo cartrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the owner's cart, creating it on first use.
func (s *Service) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, ownerKey)
}

// Add puts one unit of the watch in the owner's cart. Adding a watch that
// is already present increments its quantity.
func (s *Service) Add(ctx context.Context, ownerKey string, w domain.Watch) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	err = s.repo.AddLine(ctx, cart.ID, cartrepo.AddLineInput{
		WatchID:   w.ID,
		Brand:     w.Brand,
		Model:     w.Model,
		Year:      w.Year,
		Price:     w.Price,
		Image:     w.Image,
		Condition: w.Condition,
		Quantity:  1,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, ownerKey)
}

// Remove deletes the line for the given watch.
func (s *Service) Remove(ctx context.Context, ownerKey string, watchID int) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, watchID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, ownerKey)
}

// SetQuantity sets a line's quantity; any value below one removes the line.
func (s *Service) SetQuantity(ctx context.Context, ownerKey string, watchID, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return s.Remove(ctx, ownerKey, watchID)
	}
	cart, err := s.repo.GetOrCreate(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetQuantity(ctx, cart.ID, watchID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, ownerKey)
}

// Clear empties the cart, used after a successful checkout.
func (s *Service) Clear(ctx context.Context, ownerKey string) error {
	cart, err := s.repo.GetOrCreate(ctx, ownerKey)
	if err != nil {
		return err
	}
	return s.repo.Clear(ctx, cart.ID)
}

// Subtotal sums parsed line price times quantity over the cart. Lines with
// unparseable prices contribute zero rather than failing the cart view.
func Subtotal(c *domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		price, err := currency.ParseAmount(line.Price)
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount is the total unit count across all lines.
func ItemCount(c *domain.Cart) int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
