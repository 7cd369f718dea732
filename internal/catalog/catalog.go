package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"standardtime/internal/domain"
)

//go:embed watches.json
var catalogFS embed.FS

// Catalog is the immutable in-memory watch list. It is built once at
// startup and safe for concurrent reads.
type Catalog struct {
	watches []domain.Watch
	byID    map[int]domain.Watch
}

// Load reads a JSON array of watches from r and indexes it by id.
func Load(r io.Reader) (*Catalog, error) {
	var watches []domain.Watch
	if err := json.NewDecoder(r).Decode(&watches); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	byID := make(map[int]domain.Watch, len(watches))
	for _, w := range watches {
		if _, dup := byID[w.ID]; dup {
			return nil, fmt.Errorf("duplicate watch id %d", w.ID)
		}
		byID[w.ID] = w
	}
	return &Catalog{watches: watches, byID: byID}, nil
}

// LoadEmbedded builds the catalog from the JSON file compiled into the
// binary.
func LoadEmbedded() (*Catalog, error) {
	f, err := catalogFS.Open("watches.json")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// List returns a copy of the full catalog in file order.
func (c *Catalog) List() []domain.Watch {
	out := make([]domain.Watch, len(c.watches))
	copy(out, c.watches)
	return out
}

// Get looks a watch up by id.
func (c *Catalog) Get(id int) (*domain.Watch, error) {
	w, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

// Brands returns "all" followed by the distinct brands in ascending order,
// matching the storefront's filter dropdown.
func (c *Catalog) Brands() []string {
	seen := make(map[string]struct{})
	var brands []string
	for _, w := range c.watches {
		if _, ok := seen[w.Brand]; ok {
			continue
		}
		seen[w.Brand] = struct{}{}
		brands = append(brands, w.Brand)
	}
	sort.Strings(brands)
	return append([]string{"all"}, brands...)
}
