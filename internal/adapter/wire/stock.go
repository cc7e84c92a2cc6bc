// Package wire holds the JSON shapes of the stock and dashboard resources shared by the
// REST clients and the HTTP server, plus their conversion to and from domain types.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stocktracker/internal/domain"
)

// Stock is the JSON representation of a stock record.
// Every field is optional so the same shape serves create bodies, partial updates and full records.
type Stock struct {
	ID             *int64       `json:"id,omitempty"`
	Name           *string      `json:"name,omitempty"`
	Ticker         *string      `json:"ticker,omitempty"`
	Quantity       *json.Number `json:"quantity,omitempty"`
	BuyPrice       *json.Number `json:"buyPrice,omitempty"`
	CurrentPrice   *json.Number `json:"currentPrice,omitempty"`
	PriceUpdatedAt *time.Time   `json:"priceUpdatedAt,omitempty"`
}

// FromStock converts a domain stock into its full JSON record
func FromStock(s domain.Stock) Stock {
	id := s.ID
	name := s.Name
	ticker := s.Ticker
	out := Stock{
		ID:       &id,
		Name:     &name,
		Ticker:   &ticker,
		Quantity: number(s.Quantity),
		BuyPrice: number(s.BuyPrice),
	}
	if s.CurrentPrice != nil {
		out.CurrentPrice = number(*s.CurrentPrice)
	}
	if s.PriceUpdatedAt != nil {
		at := *s.PriceUpdatedAt
		out.PriceUpdatedAt = &at
	}
	return out
}

// FromStocks converts a slice of domain stocks, never returning nil
func FromStocks(stocks []domain.Stock) []Stock {
	out := make([]Stock, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, FromStock(s))
	}
	return out
}

// FromNewStock converts a create payload into a JSON body without id
func FromNewStock(s domain.NewStock) Stock {
	name := s.Name
	ticker := s.Ticker
	return Stock{
		Name:     &name,
		Ticker:   &ticker,
		Quantity: number(s.Quantity),
		BuyPrice: number(s.BuyPrice),
	}
}

// FromPatch converts a partial update into a JSON body holding only the present fields
func FromPatch(p domain.StockPatch) Stock {
	out := Stock{
		Name:   p.Name,
		Ticker: p.Ticker,
	}
	if p.Quantity != nil {
		out.Quantity = number(*p.Quantity)
	}
	if p.BuyPrice != nil {
		out.BuyPrice = number(*p.BuyPrice)
	}
	return out
}

// ToStock converts a full JSON record into a domain stock.
// It fails when a required field is missing or a number cannot be parsed.
func (s Stock) ToStock() (domain.Stock, error) {
	if s.ID == nil {
		return domain.Stock{}, fmt.Errorf("stock record without id")
	}
	out := domain.Stock{ID: *s.ID}
	if s.Name != nil {
		out.Name = *s.Name
	}
	if s.Ticker != nil {
		out.Ticker = *s.Ticker
	}

	var err error
	if out.Quantity, err = parseRequired("quantity", s.Quantity); err != nil {
		return domain.Stock{}, err
	}
	if out.BuyPrice, err = parseRequired("buyPrice", s.BuyPrice); err != nil {
		return domain.Stock{}, err
	}
	if s.CurrentPrice != nil {
		price, err := parseNumber("currentPrice", *s.CurrentPrice)
		if err != nil {
			return domain.Stock{}, err
		}
		out.CurrentPrice = &price
	}
	if s.PriceUpdatedAt != nil {
		at := *s.PriceUpdatedAt
		out.PriceUpdatedAt = &at
	}
	return out, nil
}

// ToPatch converts the present fields into a partial update. The id is ignored.
func (s Stock) ToPatch() (domain.StockPatch, error) {
	patch := domain.StockPatch{
		Name:   s.Name,
		Ticker: s.Ticker,
	}
	for _, f := range []struct {
		name string
		in   *json.Number
		out  **decimal.Decimal
	}{
		{"quantity", s.Quantity, &patch.Quantity},
		{"buyPrice", s.BuyPrice, &patch.BuyPrice},
		{"currentPrice", s.CurrentPrice, &patch.CurrentPrice},
	} {
		if f.in == nil {
			continue
		}
		d, err := parseNumber(f.name, *f.in)
		if err != nil {
			return domain.StockPatch{}, err
		}
		*f.out = &d
	}
	if s.PriceUpdatedAt != nil {
		at := *s.PriceUpdatedAt
		patch.PriceUpdatedAt = &at
	}
	return patch, nil
}

// ToNewStock converts a create body into a create payload.
// Missing or malformed fields are reported as validation errors.
func (s Stock) ToNewStock() (domain.NewStock, error) {
	var out domain.NewStock
	if s.Name != nil {
		out.Name = *s.Name
	}
	if s.Ticker != nil {
		out.Ticker = *s.Ticker
	}
	for _, f := range []struct {
		name string
		in   *json.Number
		out  *decimal.Decimal
	}{
		{"quantity", s.Quantity, &out.Quantity},
		{"buyPrice", s.BuyPrice, &out.BuyPrice},
	} {
		if f.in == nil {
			return domain.NewStock{}, &domain.ValidationError{Field: f.name, Reason: "is required"}
		}
		d, err := decimal.NewFromString(f.in.String())
		if err != nil {
			return domain.NewStock{}, &domain.ValidationError{Field: f.name, Reason: "must be a number"}
		}
		*f.out = d
	}
	return out, nil
}

func number(d decimal.Decimal) *json.Number {
	n := json.Number(d.String())
	return &n
}

func parseRequired(field string, n *json.Number) (decimal.Decimal, error) {
	if n == nil {
		return decimal.Zero, fmt.Errorf("stock record without %s", field)
	}
	return parseNumber(field, *n)
}

func parseNumber(field string, n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s %q: %w", field, n, err)
	}
	return d, nil
}
