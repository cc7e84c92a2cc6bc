package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stocktracker/internal/adapter/repository/memory"
	"github.com/simaogato/stocktracker/internal/domain"
)

// MockPriceProvider is a mock implementation of PriceProvider for testing
type MockPriceProvider struct {
	mock.Mock
}

func (m *MockPriceProvider) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func quote(ticker string, price int64) *domain.Quote {
	return &domain.Quote{Ticker: ticker, Price: decimal.NewFromInt(price)}
}

func seed(t *testing.T, repo *memory.StockRepository, tickers ...string) {
	t.Helper()
	for _, ticker := range tickers {
		_, err := repo.Create(context.Background(), domain.NewStock{
			Name: ticker, Ticker: ticker, Quantity: decimal.NewFromInt(1), BuyPrice: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	}
}

func newTestRefresher(repo domain.StockRepository, provider domain.PriceProvider, quota int, now *time.Time) *RefresherService {
	s := NewRefresherService(repo, provider, quota, zerolog.Nop())
	s.now = func() time.Time { return *now }
	return s
}

func TestRefresh_UpdatesEachTickerOnce(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seed(t, repo, "AAPL", "MSFT", "AAPL")
	provider := new(MockPriceProvider)
	provider.On("GetQuote", mock.Anything, "AAPL").Return(quote("AAPL", 180), nil).Once()
	provider.On("GetQuote", mock.Anything, "MSFT").Return(quote("MSFT", 400), nil).Once()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	refresher := newTestRefresher(repo, provider, 25, &now)

	result, err := refresher.Refresh(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, result.Updated)
	assert.Equal(t, 23, refresher.Remaining())

	stocks, _ := repo.List(ctx)
	for _, s := range stocks {
		require.NotNil(t, s.CurrentPrice, s.Ticker)
		assert.True(t, now.Equal(*s.PriceUpdatedAt))
	}
	provider.AssertExpectations(t)
}

func TestRefresh_QuotaDefersStalestLast(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seed(t, repo, "AAPL", "MSFT", "TSLA")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// AAPL priced recently, MSFT long ago, TSLA never
	_, err := repo.UpdatePrice(ctx, "AAPL", decimal.NewFromInt(1), now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.UpdatePrice(ctx, "MSFT", decimal.NewFromInt(1), now.Add(-48*time.Hour))
	require.NoError(t, err)

	provider := new(MockPriceProvider)
	provider.On("GetQuote", mock.Anything, "TSLA").Return(quote("TSLA", 200), nil)
	provider.On("GetQuote", mock.Anything, "MSFT").Return(quote("MSFT", 400), nil)

	refresher := newTestRefresher(repo, provider, 2, &now)

	result, err := refresher.Refresh(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"TSLA", "MSFT"}, result.Updated)
	assert.Equal(t, []string{"AAPL"}, result.Deferred)
	assert.Zero(t, refresher.Remaining())
	provider.AssertNotCalled(t, "GetQuote", mock.Anything, "AAPL")

	// A new UTC day restores the budget
	now = now.Add(24 * time.Hour)
	assert.Equal(t, 2, refresher.Remaining())
}

func TestRefresh_RateLimitExhaustsQuota(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seed(t, repo, "AAPL", "MSFT")

	provider := new(MockPriceProvider)
	provider.On("GetQuote", mock.Anything, "AAPL").Return(nil, domain.ErrRateLimited)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	refresher := newTestRefresher(repo, provider, 25, &now)

	result, err := refresher.Refresh(ctx)

	require.NoError(t, err)
	assert.Empty(t, result.Updated)
	assert.Equal(t, []string{"AAPL", "MSFT"}, result.Deferred)
	assert.Zero(t, refresher.Remaining())
}

func TestRefresh_FailedTickerDoesNotStopPass(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockRepository()
	seed(t, repo, "XXXX", "MSFT")

	provider := new(MockPriceProvider)
	provider.On("GetQuote", mock.Anything, "XXXX").Return(nil, domain.ErrPriceNotFound)
	provider.On("GetQuote", mock.Anything, "MSFT").Return(quote("MSFT", 400), nil)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	refresher := newTestRefresher(repo, provider, 25, &now)

	result, err := refresher.Refresh(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"XXXX"}, result.Failed)
	assert.Equal(t, []string{"MSFT"}, result.Updated)
}

func TestRun_ListError(t *testing.T) {
	repo := new(failingRepo)
	refresher := NewRefresherService(repo, new(MockPriceProvider), 0, zerolog.Nop())

	assert.Equal(t, DefaultDailyQuota, refresher.Quota)
	assert.Equal(t, "price_refresh", refresher.Name())
	assert.Error(t, refresher.Run())
}

type failingRepo struct {
	memory.StockRepository
}

func (r *failingRepo) List(ctx context.Context) ([]domain.Stock, error) {
	return nil, errors.New("db down")
}
