package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/simaogato/stocktracker/internal/domain"
)

// StockService handles stock CRUD on the server side
type StockService struct {
	StockRepo domain.StockRepository
}

// NewStockService creates a new StockService instance
func NewStockService(stockRepo domain.StockRepository) *StockService {
	return &StockService{
		StockRepo: stockRepo,
	}
}

// List returns every stock ordered by id
func (s *StockService) List(ctx context.Context) ([]domain.Stock, error) {
	stocks, err := s.StockRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}

// Create validates and persists a new stock. The id is assigned by the repository;
// the current price stays empty until the price refresher fills it.
// Name and ticker are stored trimmed so price updates match the ticker exactly.
func (s *StockService) Create(ctx context.Context, input domain.NewStock) (*domain.Stock, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Ticker = strings.TrimSpace(input.Ticker)

	candidate := domain.Stock{
		Name:     input.Name,
		Ticker:   input.Ticker,
		Quantity: input.Quantity,
		BuyPrice: input.BuyPrice,
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	created, err := s.StockRepo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock: %w", err)
	}
	return created, nil
}

// Update applies a partial update to the stock with the given id.
// Price fields are owned by the price refresher and are ignored here.
// Logic:
//   - A ticker change drops the current price, which belonged to the old ticker
//   - The merged stock is validated before storage is touched
func (s *StockService) Update(ctx context.Context, id int64, patch domain.StockPatch) (*domain.Stock, error) {
	patch.CurrentPrice = nil
	patch.PriceUpdatedAt = nil
	patch.ClearPrice = false
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if patch.Ticker != nil {
		ticker := strings.TrimSpace(*patch.Ticker)
		patch.Ticker = &ticker
	}
	if patch.IsEmpty() {
		return nil, &domain.ValidationError{Field: "body", Reason: "no updatable fields"}
	}

	// Validate the merged result before touching storage
	current, err := s.StockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Ticker != nil && *patch.Ticker != current.Ticker {
		patch.ClearPrice = true
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.StockRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock %d: %w", id, err)
	}
	return updated, nil
}

// Delete removes the stock with the given id
func (s *StockService) Delete(ctx context.Context, id int64) error {
	if err := s.StockRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete stock %d: %w", id, err)
	}
	return nil
}
