package domain

import "time"

// Cart is the set of line items owned by one shopper. OwnerKey is either a
// signed-in profile ID or an opaque guest token supplied by the client.
type Cart struct {
	ID        string     `json:"id"`
	OwnerKey  string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	Lines     []CartLine `json:"lines"`
}

// CartLine denormalizes the watch fields needed to render the cart so that
// a catalog reload cannot change a line under the shopper. Quantity is
// always >= 1; a line that would drop below 1 is removed instead.
type CartLine struct {
	ID        string    `json:"id"`
	CartID    string    `json:"-"`
	WatchID   int       `json:"watchId"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      string    `json:"year"`
	Price     string    `json:"price"`
	Image     string    `json:"image,omitempty"`
	Condition string    `json:"condition,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"addedAt"`
}
