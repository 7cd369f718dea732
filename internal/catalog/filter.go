package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"standardtime/internal/currency"
	"standardtime/internal/domain"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortPriceLowHigh SortKey = "price-low"
	SortPriceHighLow SortKey = "price-high"
	SortBrand        SortKey = "brand"
)

// Filter narrows watches by a case-insensitive substring match on brand or
// model and an exact brand filter ("all" or "" disables it), then sorts by
// key. Pure and deterministic; a term matching nothing yields an empty
// slice.
func Filter(watches []domain.Watch, searchTerm, brand string, key SortKey) []domain.Watch {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	filtered := make([]domain.Watch, 0, len(watches))
	for _, w := range watches {
		if term != "" &&
			!strings.Contains(strings.ToLower(w.Brand), term) &&
			!strings.Contains(strings.ToLower(w.Model), term) {
			continue
		}
		if brand != "" && brand != "all" && w.Brand != brand {
			continue
		}
		filtered = append(filtered, w)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch key {
		case SortPriceLowHigh:
			ap, bp := priceValue(a.Price), priceValue(b.Price)
			if !ap.Equal(bp) {
				return ap.LessThan(bp)
			}
		case SortPriceHighLow:
			ap, bp := priceValue(a.Price), priceValue(b.Price)
			if !ap.Equal(bp) {
				return ap.GreaterThan(bp)
			}
		}
		return a.Brand < b.Brand
	})

	return filtered
}

// priceValue parses a display price for ordering; unparseable prices sort
// as zero rather than failing the whole filter.
func priceValue(price string) decimal.Decimal {
	d, err := currency.ParseAmount(price)
	if err != nil {
		return decimal.Zero
	}
	return d
}
