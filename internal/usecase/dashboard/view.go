package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

// State is the fetch status of a View
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Display is the rendered form of a dashboard aggregate. Every number is two-decimal fixed point.
type Display struct {
	TotalValue   string
	TopStockName string
	TopStockGain string
	Distribution []DisplayEntry
}

// DisplayEntry is one rendered distribution row
type DisplayEntry struct {
	StockName  string
	Percentage string
}

// View fetches the dashboard aggregate and degrades to placeholders while pending or on error
type View struct {
	API domain.DashboardAPI
	log zerolog.Logger

	mu        sync.Mutex
	loadGen   uint64
	state     State
	err       error
	aggregate *domain.DashboardAggregate
}

// NewView creates a View in the loading state
func NewView(api domain.DashboardAPI, log zerolog.Logger) *View {
	return &View{
		API:   api,
		log:   log.With().Str("component", "dashboard").Logger(),
		state: StateLoading,
	}
}

// Load fetches the aggregate once. A failure is recorded, logged and returned;
// the view then displays placeholders instead of stale data.
// A fetch that completes after a newer Load was started is discarded with ErrStaleResponse.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loadGen++
	gen := v.loadGen
	v.state = StateLoading
	v.err = nil
	v.mu.Unlock()

	aggregate, err := v.API.Read(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.loadGen {
		return domain.ErrStaleResponse
	}
	if err != nil {
		v.state = StateError
		v.err = err
		v.aggregate = nil
		v.log.Error().Err(err).Msg("Failed to fetch dashboard data")
		return fmt.Errorf("failed to fetch dashboard data: %w", err)
	}

	v.state = StateLoaded
	v.aggregate = aggregate
	return nil
}

// State returns the fetch status and the last fetch error, if any
func (v *View) State() (State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.state, v.err
}

// Aggregate returns the fetched aggregate, or the placeholder while pending or on error
func (v *View) Aggregate() domain.DashboardAggregate {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateLoaded || v.aggregate == nil {
		return domain.PlaceholderAggregate()
	}
	return *v.aggregate
}

// Display renders the current aggregate
func (v *View) Display() Display {
	return Render(v.Aggregate())
}

// Render formats an aggregate for display
func Render(aggregate domain.DashboardAggregate) Display {
	name := aggregate.TopPerformingStock.StockName
	if name == "" {
		name = domain.PlaceholderStockName
	}

	entries := make([]DisplayEntry, 0, len(aggregate.PortfolioDistribution))
	for _, entry := range aggregate.PortfolioDistribution {
		entries = append(entries, DisplayEntry{
			StockName:  entry.StockName,
			Percentage: FormatFixed(entry.Percentage),
		})
	}

	return Display{
		TotalValue:   FormatFixed(aggregate.TotalPortfolioValue),
		TopStockName: name,
		TopStockGain: FormatFixed(aggregate.TopPerformingStock.Gain),
		Distribution: entries,
	}
}

// FormatFixed renders a value with two decimals; values that are not numbers render as "0.00"
func FormatFixed(value decimal.NullDecimal) string {
	if !value.Valid {
		return decimal.Zero.StringFixed(2)
	}
	return value.Decimal.StringFixed(2)
}
