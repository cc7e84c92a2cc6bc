package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stocktracker/internal/domain"
)

// MockStockRepository is a mock implementation of StockRepository for testing
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) List(ctx context.Context) ([]domain.Stock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Stock), args.Error(1)
}

func (m *MockStockRepository) GetByID(ctx context.Context, id int64) (*domain.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stock), args.Error(1)
}

func (m *MockStockRepository) Create(ctx context.Context, stock domain.NewStock) (*domain.Stock, error) {
	args := m.Called(ctx, stock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stock), args.Error(1)
}

func (m *MockStockRepository) Update(ctx context.Context, id int64, patch domain.StockPatch) (*domain.Stock, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stock), args.Error(1)
}

func (m *MockStockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockRepository) UpdatePrice(ctx context.Context, ticker string, price decimal.Decimal, at time.Time) (int, error) {
	args := m.Called(ctx, ticker, price, at)
	return args.Int(0), args.Error(1)
}

func holding(id int64, name string, quantity, buyPrice int64, currentPrice *int64) domain.Stock {
	stock := domain.Stock{
		ID:       id,
		Name:     name,
		Ticker:   name,
		Quantity: decimal.NewFromInt(quantity),
		BuyPrice: decimal.NewFromInt(buyPrice),
	}
	if currentPrice != nil {
		p := decimal.NewFromInt(*currentPrice)
		stock.CurrentPrice = &p
	}
	return stock
}

func ptr(v int64) *int64 { return &v }

func TestAggregate_Portfolio(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStockRepository)
	service := NewDashboardService(repo)

	repo.On("List", ctx).Return([]domain.Stock{
		holding(1, "Apple Inc.", 10, 150, ptr(180)),   // value 1800, gain 20%
		holding(2, "Tesla Inc.", 2, 200, ptr(300)),    // value 600, gain 50%
		holding(3, "NVIDIA Corporation", 5, 100, nil), // not priced yet
		holding(4, "Gifted", 1, 0, ptr(0)),            // zero buy price is ignored for gain
	}, nil)

	aggregate, err := service.Aggregate(ctx)

	require.NoError(t, err)
	assert.True(t, aggregate.TotalPortfolioValue.Decimal.Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, "Tesla Inc.", aggregate.TopPerformingStock.StockName)
	assert.Equal(t, "50.00", aggregate.TopPerformingStock.Gain.Decimal.StringFixed(2))

	require.Len(t, aggregate.PortfolioDistribution, 4)
	assert.Equal(t, "Apple Inc.", aggregate.PortfolioDistribution[0].StockName)
	assert.Equal(t, "75.00", aggregate.PortfolioDistribution[0].Percentage.Decimal.StringFixed(2))
	assert.Equal(t, "25.00", aggregate.PortfolioDistribution[1].Percentage.Decimal.StringFixed(2))

	repo.AssertExpectations(t)
}

func TestAggregate_EmptyPortfolio(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStockRepository)
	service := NewDashboardService(repo)

	repo.On("List", ctx).Return([]domain.Stock{}, nil)

	aggregate, err := service.Aggregate(ctx)

	require.NoError(t, err)
	assert.True(t, aggregate.TotalPortfolioValue.Decimal.IsZero())
	assert.Equal(t, domain.PlaceholderStockName, aggregate.TopPerformingStock.StockName)
	assert.True(t, aggregate.TopPerformingStock.Gain.Decimal.IsZero())
	assert.Empty(t, aggregate.PortfolioDistribution)
}

func TestAggregate_NegativeGainStillWins(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStockRepository)
	service := NewDashboardService(repo)

	repo.On("List", ctx).Return([]domain.Stock{
		holding(1, "Loser", 1, 100, ptr(50)),
		holding(2, "Smaller Loser", 1, 100, ptr(90)),
	}, nil)

	aggregate, err := service.Aggregate(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Smaller Loser", aggregate.TopPerformingStock.StockName)
	assert.Equal(t, "-10.00", aggregate.TopPerformingStock.Gain.Decimal.StringFixed(2))
}

func TestAggregate_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockStockRepository)
	service := NewDashboardService(repo)

	repo.On("List", ctx).Return(nil, errors.New("connection reset"))

	aggregate, err := service.Aggregate(ctx)

	assert.Nil(t, aggregate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list stocks")
}
