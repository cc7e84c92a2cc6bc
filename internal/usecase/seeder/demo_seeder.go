package seeder

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

// DemoHolding defines a catalog stock to be seeded
type DemoHolding struct {
	Ticker   string
	Quantity string
	BuyPrice string
}

// DemoHoldings is the portfolio created on an empty store
var DemoHoldings = []DemoHolding{
	{Ticker: "AAPL", Quantity: "10", BuyPrice: "150"},
	{Ticker: "MSFT", Quantity: "5", BuyPrice: "310.50"},
	{Ticker: "TSLA", Quantity: "2.5", BuyPrice: "200"},
	{Ticker: "NVDA", Quantity: "4", BuyPrice: "450"},
}

// DemoSeeder fills an empty repository with a small demo portfolio
type DemoSeeder struct {
	repo domain.StockRepository
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(repo domain.StockRepository) *DemoSeeder {
	return &DemoSeeder{
		repo: repo,
	}
}

// Seed creates the demo holdings when the repository holds no stock yet.
// It returns the number of stocks created; a non-empty repository is left untouched.
func (s *DemoSeeder) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stocks: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, h := range DemoHoldings {
		entry, ok := domain.LookupByTicker(h.Ticker)
		if !ok {
			return created, fmt.Errorf("%s: %w", h.Ticker, domain.ErrNotInCatalog)
		}

		stock := domain.NewStock{
			Name:     entry.Name,
			Ticker:   entry.Ticker,
			Quantity: decimal.RequireFromString(h.Quantity),
			BuyPrice: decimal.RequireFromString(h.BuyPrice),
		}

		if _, err := s.repo.Create(ctx, stock); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", h.Ticker, err)
		}
		created++
	}

	return created, nil
}
