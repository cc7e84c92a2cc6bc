// Package memory keeps stocks in process memory. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

// StockRepository implements domain.StockRepository
type StockRepository struct {
	mu     sync.RWMutex
	nextID int64
	stocks map[int64]domain.Stock
}

// NewStockRepository creates an empty repository; ids start at 1
func NewStockRepository() *StockRepository {
	return &StockRepository{
		nextID: 1,
		stocks: make(map[int64]domain.Stock),
	}
}

// List retrieves all stocks ordered by id
func (r *StockRepository) List(ctx context.Context) ([]domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stocks := make([]domain.Stock, 0, len(r.stocks))
	for _, s := range r.stocks {
		stocks = append(stocks, s.Clone())
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ID < stocks[j].ID })
	return stocks, nil
}

// GetByID retrieves a stock by its ID
func (r *StockRepository) GetByID(ctx context.Context, id int64) (*domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stocks[id]
	if !ok {
		return nil, fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
	}
	out := s.Clone()
	return &out, nil
}

// Create stores a new stock under the next id
func (r *StockRepository) Create(ctx context.Context, input domain.NewStock) (*domain.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := domain.Stock{
		ID:       r.nextID,
		Name:     input.Name,
		Ticker:   input.Ticker,
		Quantity: input.Quantity,
		BuyPrice: input.BuyPrice,
	}
	r.nextID++
	r.stocks[s.ID] = s

	out := s.Clone()
	return &out, nil
}

// Update applies the patch to the stored stock
func (r *StockRepository) Update(ctx context.Context, id int64, patch domain.StockPatch) (*domain.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stocks[id]
	if !ok {
		return nil, fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
	}
	patch.Apply(&s)
	r.stocks[id] = s

	out := s.Clone()
	return &out, nil
}

// Delete removes a stock by its ID
func (r *StockRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stocks[id]; !ok {
		return fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
	}
	delete(r.stocks, id)
	return nil
}

// UpdatePrice sets the live price of every stock with the given ticker
func (r *StockRepository) UpdatePrice(ctx context.Context, ticker string, price decimal.Decimal, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for id, s := range r.stocks {
		if s.Ticker != ticker {
			continue
		}
		p := price
		t := at.UTC()
		s.CurrentPrice = &p
		s.PriceUpdatedAt = &t
		r.stocks[id] = s
		updated++
	}
	return updated, nil
}
