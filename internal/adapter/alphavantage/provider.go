// Package alphavantage fetches live prices from the Alpha Vantage GLOBAL_QUOTE endpoint.
// The free tier allows 25 requests per day, so quotes are cached.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

const (
	DefaultBaseURL  = "https://www.alphavantage.co/query"
	DefaultCacheTTL = 10 * time.Minute

	pricePath      = `$["Global Quote"]["05. price"]`
	tradingDayPath = `$["Global Quote"]["07. latest trading day"]`
)

// ErrAPIKeyMissing is returned when the provider is built without an API key
var ErrAPIKeyMissing = errors.New("alpha vantage API key not set")

// Config configures a Provider
type Config struct {
	APIKey     string
	BaseURL    string        // defaults to DefaultBaseURL
	CacheTTL   time.Duration // defaults to DefaultCacheTTL
	HTTPClient *http.Client  // defaults to a client with an 8s timeout
}

// Provider implements domain.PriceProvider
type Provider struct {
	apiKey  string
	baseURL string
	ttl     time.Duration
	cli     *http.Client
	log     zerolog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

type cachedQuote struct {
	quote   domain.Quote
	fetched time.Time
}

// NewProvider creates a Provider
func NewProvider(cfg Config, log zerolog.Logger) (*Provider, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrAPIKeyMissing
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Provider{
		apiKey:  key,
		baseURL: cfg.BaseURL,
		ttl:     cfg.CacheTTL,
		cli:     cfg.HTTPClient,
		log:     log.With().Str("component", "alphavantage").Logger(),
		now:     time.Now,
		cache:   make(map[string]cachedQuote),
	}, nil
}

// GetQuote returns the latest price for ticker, from cache when fresh
func (p *Provider) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, domain.ErrPriceNotFound
	}

	// cache hit?
	p.mu.RLock()
	if c, ok := p.cache[symbol]; ok && p.now().Sub(c.fetched) < p.ttl {
		p.mu.RUnlock()
		q := c.quote
		return &q, nil
	}
	p.mu.RUnlock()

	raw, err := p.fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	quote, err := parseQuote(symbol, raw, p.now())
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[symbol] = cachedQuote{quote: *quote, fetched: p.now()}
	p.mu.Unlock()

	p.log.Debug().Str("ticker", symbol).Str("price", quote.Price.String()).Msg("Fetched quote")
	return quote, nil
}

func (p *Provider) fetch(ctx context.Context, symbol string) (map[string]any, error) {
	query := url.Values{}
	query.Set("function", "GLOBAL_QUOTE")
	query.Set("symbol", symbol)
	query.Set("apikey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("User-Agent", "stocktracker/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "get quote", Method: http.MethodGet, URL: p.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.TransportError{Op: "get quote", Method: http.MethodGet, URL: p.baseURL, StatusCode: resp.StatusCode}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &domain.FormatError{Op: "get quote", Err: err}
	}

	// Quota messages come back as 200 with a note instead of a quote
	if _, ok := raw["Note"]; ok {
		return nil, domain.ErrRateLimited
	}
	if _, ok := raw["Information"]; ok {
		return nil, domain.ErrRateLimited
	}
	return raw, nil
}

func parseQuote(symbol string, raw map[string]any, now time.Time) (*domain.Quote, error) {
	jval, err := jsonpath.Get(pricePath, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrPriceNotFound)
	}
	priceStr, ok := jval.(string)
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrPriceNotFound)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(priceStr))
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrPriceNotFound)
	}

	asOf := now.UTC()
	if jday, err := jsonpath.Get(tradingDayPath, raw); err == nil {
		if day, ok := jday.(string); ok {
			if t, err := time.Parse("2006-01-02", day); err == nil {
				asOf = t
			}
		}
	}

	return &domain.Quote{Ticker: symbol, Price: price, AsOf: asOf}, nil
}
