package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stocktracker/internal/domain"
)

const appleQuote = `{
	"Global Quote": {
		"01. symbol": "AAPL",
		"05. price": "189.8700",
		"07. latest trading day": "2024-05-01"
	}
}`

func newTestProvider(t *testing.T, body string, status int, hits *int32) *Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	p, err := NewProvider(Config{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()}, zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider(Config{APIKey: "  "}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestGetQuote(t *testing.T) {
	p := newTestProvider(t, appleQuote, http.StatusOK, nil)

	quote, err := p.GetQuote(context.Background(), " aapl ")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Ticker)
	assert.Equal(t, "189.87", quote.Price.String())
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), quote.AsOf)
}

func TestGetQuote_Cache(t *testing.T) {
	var hits int32
	p := newTestProvider(t, appleQuote, http.StatusOK, &hits)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	now = now.Add(DefaultCacheTTL)
	_, err = p.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGetQuote_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limit note",
			body:   `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`,
			status: http.StatusOK,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrRateLimited) },
		},
		{
			name:   "information message",
			body:   `{"Information": "premium endpoint"}`,
			status: http.StatusOK,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrRateLimited) },
		},
		{
			name:   "empty quote",
			body:   `{"Global Quote": {}}`,
			status: http.StatusOK,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrPriceNotFound) },
		},
		{
			name:   "zero price",
			body:   `{"Global Quote": {"05. price": "0.0000"}}`,
			status: http.StatusOK,
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrPriceNotFound) },
		},
		{
			name:   "server error",
			body:   `oops`,
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				var te *domain.TransportError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, http.StatusBadGateway, te.StatusCode)
			},
		},
		{
			name:   "malformed body",
			body:   `<html>`,
			status: http.StatusOK,
			check: func(t *testing.T, err error) {
				var fe *domain.FormatError
				assert.ErrorAs(t, err, &fe)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, tt.body, tt.status, nil)

			quote, err := p.GetQuote(context.Background(), "AAPL")

			assert.Nil(t, quote)
			tt.check(t, err)
		})
	}
}

func TestGetQuote_BlankTicker(t *testing.T) {
	var hits int32
	p := newTestProvider(t, appleQuote, http.StatusOK, &hits)

	_, err := p.GetQuote(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrPriceNotFound)
	assert.Zero(t, atomic.LoadInt32(&hits))
}
