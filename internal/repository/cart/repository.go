package cart

import (
	"context"

	"standardtime/internal/domain"
)

// AddLineInput carries the denormalized watch snapshot captured when the
// shopper adds an item.
type AddLineInput struct {
	WatchID   int
	Brand     string
	Model     string
	Year      string
	Price     string
	Image     string
	Condition string
	Quantity  int
}

type Repository interface {
	// GetOrCreate returns the owner's cart with lines, creating an empty
	// cart on first use.
	GetOrCreate(ctx context.Context, ownerKey string) (*domain.Cart, error)
	// AddLine inserts a line or bumps the quantity when the watch is
	// already in the cart.
	AddLine(ctx context.Context, cartID string, in AddLineInput) error
	// SetQuantity replaces a line's quantity. Quantity must be >= 1.
	SetQuantity(ctx context.Context, cartID string, watchID, quantity int) error
	// RemoveLine deletes the line for the given watch.
	RemoveLine(ctx context.Context, cartID string, watchID int) error
	// Clear removes every line, used after a successful checkout.
	Clear(ctx context.Context, cartID string) error
}
