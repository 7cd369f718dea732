package domain

// Watch is a catalog entry. The catalog is loaded once at startup and is
// immutable for the lifetime of the process; prices are display strings in
// the base currency (USD).
type Watch struct {
	ID             int               `json:"id"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Year           string            `json:"year"`
	Price          string            `json:"price"`
	OriginalPrice  string            `json:"originalPrice,omitempty"`
	Condition      string            `json:"condition"`
	Image          string            `json:"image"`
	Images         []string          `json:"images,omitempty"`
	Description    string            `json:"description,omitempty"`
	Features       []string          `json:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}
