package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Hardcoded fallbacks used when every rate source fails.
var fallbackRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.NewFromFloat(0.85),
	"CNY": decimal.NewFromFloat(7.2),
}

// RateSource fetches EUR and CNY multipliers against the base currency.
type RateSource struct {
	Name  string
	URL   string
	Parse func([]byte) (eur, cny decimal.Decimal, err error)
}

// DefaultSources are tried in sequence on every refresh; the first one that
// answers wins.
func DefaultSources() []RateSource {
	return []RateSource{
		{
			Name:  "exchangerate-api",
			URL:   "https://api.exchangerate-api.com/v4/latest/USD",
			Parse: parseRatesField,
		},
		{
			Name:  "fixer",
			URL:   "https://api.fixer.io/latest?base=USD&symbols=EUR,CNY",
			Parse: parseRatesField,
		},
		{
			Name:  "currencyapi",
			URL:   "https://api.currencyapi.com/v3/latest?base_currency=USD&currencies=EUR,CNY",
			Parse: parseDataField,
		},
	}
}

func parseRatesField(body []byte) (decimal.Decimal, decimal.Decimal, error) {
	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return ratePair(payload.Rates["EUR"], payload.Rates["CNY"])
}

func parseDataField(body []byte) (decimal.Decimal, decimal.Decimal, error) {
	var payload struct {
		Data map[string]struct {
			Value float64 `json:"value"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return ratePair(payload.Data["EUR"].Value, payload.Data["CNY"].Value)
}

func ratePair(eur, cny float64) (decimal.Decimal, decimal.Decimal, error) {
	if eur <= 0 || cny <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("missing rates eur=%v cny=%v", eur, cny)
	}
	return decimal.NewFromFloat(eur), decimal.NewFromFloat(cny), nil
}

// Rates holds the process-wide exchange-rate table. Reads are concurrent;
// the refresh loop is the only writer.
type Rates struct {
	mu      sync.RWMutex
	table   map[string]decimal.Decimal
	sources []RateSource
	client  *http.Client
	logger  *log.Logger
	every   time.Duration
}

// NewRates builds a table primed with the fallback values.
func NewRates(sources []RateSource, logger *log.Logger) *Rates {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	table := make(map[string]decimal.Decimal, len(fallbackRates))
	for code, rate := range fallbackRates {
		table[code] = rate
	}
	return &Rates{
		table:   table,
		sources: sources,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		every:   30 * time.Minute,
	}
}

// Table returns a snapshot of the current rate table.
func (r *Rates) Table() map[string]decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(r.table))
	for code, rate := range r.table {
		out[code] = rate
	}
	return out
}

// Convert formats basePrice in the target currency using the live table.
func (r *Rates) Convert(basePrice, target string) string {
	return Convert(basePrice, target, r.Table())
}

// Refresh tries each source in order and installs the first usable answer.
// When all sources fail the previous table is kept.
func (r *Rates) Refresh(ctx context.Context) {
	for _, src := range r.sources {
		eur, cny, err := r.fetch(ctx, src)
		if err != nil {
			r.logger.Printf("rates: source %s failed: %v", src.Name, err)
			continue
		}
		r.mu.Lock()
		r.table["EUR"] = eur
		r.table["CNY"] = cny
		r.mu.Unlock()
		r.logger.Printf("rates: updated from %s eur=%s cny=%s", src.Name, eur, cny)
		return
	}
	r.logger.Printf("rates: all sources failed, keeping current table")
}

// Start refreshes once immediately and then on a fixed interval until ctx
// is cancelled.
func (r *Rates) Start(ctx context.Context) {
	r.Refresh(ctx)
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

func (r *Rates) fetch(ctx context.Context, src RateSource) (decimal.Decimal, decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, decimal.Zero, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return src.Parse(body)
}
