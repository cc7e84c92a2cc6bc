package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockAPI is the remote stock resource as seen by the client
type StockAPI interface {
	// List retrieves every stock of the portfolio
	List(ctx context.Context) ([]Stock, error)

	// Create sends a new stock without id and returns the persisted copy
	Create(ctx context.Context, stock NewStock) (*Stock, error)

	// Update sends a partial set of fields for the stock with the given id.
	// The returned patch holds the fields the server echoed back.
	Update(ctx context.Context, id int64, patch StockPatch) (StockPatch, error)

	// Delete removes the stock with the given id
	Delete(ctx context.Context, id int64) error
}

// DashboardAPI is the remote dashboard resource as seen by the client
type DashboardAPI interface {
	// Read retrieves the current portfolio aggregate
	Read(ctx context.Context) (*DashboardAggregate, error)
}

// StockRepository defines the interface for stock persistence operations on the server
type StockRepository interface {
	// List retrieves all stocks ordered by id
	List(ctx context.Context) ([]Stock, error)

	// GetByID retrieves a stock by its id, returning ErrStockNotFound if absent
	GetByID(ctx context.Context, id int64) (*Stock, error)

	// Create persists a new stock and returns it with its assigned id
	Create(ctx context.Context, stock NewStock) (*Stock, error)

	// Update applies the patch to the stock with the given id and returns the result
	Update(ctx context.Context, id int64, patch StockPatch) (*Stock, error)

	// Delete removes the stock with the given id
	Delete(ctx context.Context, id int64) error

	// UpdatePrice stores a live price for every stock with the given ticker.
	// It returns the number of stocks updated.
	UpdatePrice(ctx context.Context, ticker string, price decimal.Decimal, at time.Time) (int, error)
}

// PriceProvider returns the latest price for a ticker
type PriceProvider interface {
	GetQuote(ctx context.Context, ticker string) (*Quote, error)
}
