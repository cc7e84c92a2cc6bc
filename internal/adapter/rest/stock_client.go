package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/simaogato/stocktracker/internal/adapter/wire"
	"github.com/simaogato/stocktracker/internal/domain"
)

// StockClient implements domain.StockAPI against a fixed base URL such as http://host/api/stocks
type StockClient struct {
	client  *Client
	baseURL string
}

var _ domain.StockAPI = (*StockClient)(nil)

// NewStockClient creates a new stock resource client
func NewStockClient(client *Client, baseURL string) *StockClient {
	return &StockClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// List handles GET {base}
func (c *StockClient) List(ctx context.Context) ([]domain.Stock, error) {
	var records []wire.Stock
	if err := c.client.do(ctx, "list stocks", http.MethodGet, c.baseURL, nil, decodeJSON(&records)); err != nil {
		return nil, err
	}

	stocks := make([]domain.Stock, 0, len(records))
	for _, r := range records {
		s, err := r.ToStock()
		if err != nil {
			return nil, &domain.FormatError{Op: "list stocks", Err: err}
		}
		stocks = append(stocks, s)
	}
	return stocks, nil
}

// Create handles POST {base}
func (c *StockClient) Create(ctx context.Context, stock domain.NewStock) (*domain.Stock, error) {
	var record wire.Stock
	if err := c.client.do(ctx, "create stock", http.MethodPost, c.baseURL, wire.FromNewStock(stock), decodeJSON(&record)); err != nil {
		return nil, err
	}

	created, err := record.ToStock()
	if err != nil {
		return nil, &domain.FormatError{Op: "create stock", Err: err}
	}
	return &created, nil
}

// Update handles PUT {base}/{id}.
// An echoed record that carries a ticker but no current price reports the stock as unpriced,
// so the returned patch clears any cached price.
func (c *StockClient) Update(ctx context.Context, id int64, patch domain.StockPatch) (domain.StockPatch, error) {
	var record wire.Stock
	if err := c.client.do(ctx, "update stock", http.MethodPut, c.itemURL(id), wire.FromPatch(patch), decodeJSON(&record)); err != nil {
		return domain.StockPatch{}, err
	}

	updated, err := record.ToPatch()
	if err != nil {
		return domain.StockPatch{}, &domain.FormatError{Op: "update stock", Err: err}
	}
	if updated.Ticker != nil && updated.CurrentPrice == nil {
		updated.ClearPrice = true
	}
	return updated, nil
}

// Delete handles DELETE {base}/{id}. The acknowledgment body is not interpreted.
func (c *StockClient) Delete(ctx context.Context, id int64) error {
	return c.client.do(ctx, "delete stock", http.MethodDelete, c.itemURL(id), nil, func(r io.Reader) error {
		_, err := io.Copy(io.Discard, r)
		return err
	})
}

func (c *StockClient) itemURL(id int64) string {
	return fmt.Sprintf("%s/%d", c.baseURL, id)
}
