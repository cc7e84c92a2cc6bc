package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/stocktracker/internal/domain"
)

// DefaultDailyQuota matches the Alpha Vantage free tier
const DefaultDailyQuota = 25

// Result summarizes one refresh pass
type Result struct {
	Updated  []string // tickers whose price was stored
	Failed   []string // tickers whose quote could not be fetched
	Deferred []string // tickers left for a later pass because of the quota
}

// RefresherService keeps current prices up to date within a per-day request budget
type RefresherService struct {
	StockRepo domain.StockRepository
	Provider  domain.PriceProvider
	Quota     int
	Timeout   time.Duration

	log zerolog.Logger
	now func() time.Time

	mu   sync.Mutex
	day  string
	used int
}

// NewRefresherService creates a new RefresherService instance
func NewRefresherService(stockRepo domain.StockRepository, provider domain.PriceProvider, quota int, log zerolog.Logger) *RefresherService {
	if quota <= 0 {
		quota = DefaultDailyQuota
	}
	return &RefresherService{
		StockRepo: stockRepo,
		Provider:  provider,
		Quota:     quota,
		Timeout:   2 * time.Minute,
		log:       log.With().Str("component", "pricing").Logger(),
		now:       time.Now,
	}
}

// Name identifies the job in scheduler logs
func (s *RefresherService) Name() string {
	return "price_refresh"
}

// Run refreshes prices with the configured timeout
func (s *RefresherService) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	result, err := s.Refresh(ctx)
	if err != nil {
		return err
	}
	s.log.Info().
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Int("deferred", len(result.Deferred)).
		Msg("Price refresh completed")
	return nil
}

// Refresh fetches a quote for each distinct ticker in the portfolio, least recently priced first.
// Each ticker costs one request against the daily quota; once it is used up, or the provider
// reports a rate limit, the remaining tickers are deferred to a later pass.
func (s *RefresherService) Refresh(ctx context.Context) (*Result, error) {
	stocks, err := s.StockRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}

	result := &Result{}
	tickers := stalestTickers(stocks)

	for i, ticker := range tickers {
		if !s.reserve() {
			result.Deferred = append(result.Deferred, tickers[i:]...)
			s.log.Warn().Int("deferred", len(tickers)-i).Msg("Daily price quota exhausted")
			break
		}

		quote, err := s.Provider.GetQuote(ctx, ticker)
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				s.exhaust()
				result.Deferred = append(result.Deferred, tickers[i:]...)
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Price source rate limited")
				break
			}
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed = append(result.Failed, ticker)
			s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch quote")
			continue
		}

		if _, err := s.StockRepo.UpdatePrice(ctx, ticker, quote.Price, s.now().UTC()); err != nil {
			return result, fmt.Errorf("failed to store price for %s: %w", ticker, err)
		}
		result.Updated = append(result.Updated, ticker)
	}

	return result, nil
}

// Remaining returns the number of requests left for the current UTC day
func (s *RefresherService) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollover()
	return s.Quota - s.used
}

func (s *RefresherService) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollover()
	if s.used >= s.Quota {
		return false
	}
	s.used++
	return true
}

func (s *RefresherService) exhaust() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.used = s.Quota
}

// rollover resets the budget on a new UTC day. Caller must hold mu.
func (s *RefresherService) rollover() {
	today := s.now().UTC().Format("2006-01-02")
	if today != s.day {
		s.day = today
		s.used = 0
	}
}

// stalestTickers returns each distinct ticker once, never-priced first, then oldest price first
func stalestTickers(stocks []domain.Stock) []string {
	oldest := make(map[string]*time.Time)
	var tickers []string
	for _, stock := range stocks {
		at, seen := oldest[stock.Ticker]
		if !seen {
			tickers = append(tickers, stock.Ticker)
			oldest[stock.Ticker] = stock.PriceUpdatedAt
			continue
		}
		if at != nil && (stock.PriceUpdatedAt == nil || stock.PriceUpdatedAt.Before(*at)) {
			oldest[stock.Ticker] = stock.PriceUpdatedAt
		}
	}

	sort.SliceStable(tickers, func(i, j int) bool {
		a, b := oldest[tickers[i]], oldest[tickers[j]]
		switch {
		case a == nil:
			return b != nil
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	return tickers
}
