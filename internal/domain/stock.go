package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Stock represents a portfolio holding.
// ID is assigned by the server and never changes afterwards.
// CurrentPrice is nil until the backend has fetched a live price for the ticker.
type Stock struct {
	ID             int64
	Name           string
	Ticker         string
	Quantity       decimal.Decimal
	BuyPrice       decimal.Decimal
	CurrentPrice   *decimal.Decimal
	PriceUpdatedAt *time.Time
}

// Validate ensures the stock adheres to domain rules
func (s *Stock) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(s.Ticker) == "" {
		return &ValidationError{Field: "ticker", Reason: "cannot be empty"}
	}
	if s.Quantity.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if s.BuyPrice.IsNegative() {
		return &ValidationError{Field: "buyPrice", Reason: "must not be negative"}
	}
	if s.CurrentPrice != nil && s.CurrentPrice.IsNegative() {
		return &ValidationError{Field: "currentPrice", Reason: "must not be negative"}
	}
	return nil
}

// Value returns quantity × current price, treating a missing price as zero
func (s Stock) Value() decimal.Decimal {
	if s.CurrentPrice == nil {
		return decimal.Zero
	}
	return s.Quantity.Mul(*s.CurrentPrice)
}

// Cost returns quantity × buy price
func (s Stock) Cost() decimal.Decimal {
	return s.Quantity.Mul(s.BuyPrice)
}

// Gain returns Value minus Cost. ok is false when there is no current price.
func (s Stock) Gain() (gain decimal.Decimal, ok bool) {
	if s.CurrentPrice == nil {
		return decimal.Zero, false
	}
	return s.Value().Sub(s.Cost()), true
}

// GainPercent returns the price change since purchase in percent.
// ok is false when there is no current price or the buy price is zero.
func (s Stock) GainPercent() (gain decimal.Decimal, ok bool) {
	if s.CurrentPrice == nil || s.BuyPrice.IsZero() {
		return decimal.Zero, false
	}
	return s.CurrentPrice.Sub(s.BuyPrice).Div(s.BuyPrice).Mul(hundred), true
}

// NewStock is the payload of a create request: everything but the server-assigned fields
type NewStock struct {
	Name     string
	Ticker   string
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
}

// StockPatch holds a partial set of stock fields. Nil fields are left untouched by Apply.
type StockPatch struct {
	Name           *string
	Ticker         *string
	Quantity       *decimal.Decimal
	BuyPrice       *decimal.Decimal
	CurrentPrice   *decimal.Decimal
	PriceUpdatedAt *time.Time
	ClearPrice     bool // unset the current price and its timestamp unless new ones are given
}

// IsEmpty reports whether the patch carries no field at all
func (p StockPatch) IsEmpty() bool {
	return p.Name == nil && p.Ticker == nil && p.Quantity == nil &&
		p.BuyPrice == nil && p.CurrentPrice == nil && p.PriceUpdatedAt == nil && !p.ClearPrice
}

// Apply merges the present fields of the patch into s. The id is never touched.
func (p StockPatch) Apply(s *Stock) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Ticker != nil {
		s.Ticker = *p.Ticker
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.BuyPrice != nil {
		s.BuyPrice = *p.BuyPrice
	}
	if p.ClearPrice {
		s.CurrentPrice = nil
		s.PriceUpdatedAt = nil
	}
	if p.CurrentPrice != nil {
		price := *p.CurrentPrice
		s.CurrentPrice = &price
	}
	if p.PriceUpdatedAt != nil {
		at := *p.PriceUpdatedAt
		s.PriceUpdatedAt = &at
	}
}

// Clone returns a copy of s that shares no pointers with it
func (s Stock) Clone() Stock {
	out := s
	if s.CurrentPrice != nil {
		price := *s.CurrentPrice
		out.CurrentPrice = &price
	}
	if s.PriceUpdatedAt != nil {
		at := *s.PriceUpdatedAt
		out.PriceUpdatedAt = &at
	}
	return out
}

// TotalValue sums Value over all stocks
func TotalValue(stocks []Stock) decimal.Decimal {
	total := decimal.Zero
	for _, s := range stocks {
		total = total.Add(s.Value())
	}
	return total
}
