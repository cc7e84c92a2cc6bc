package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stocktracker/internal/domain"
)

// Dashboard is the JSON representation of the dashboard aggregate.
// Numeric fields are typed loosely: anything that is not a JSON number decodes as an invalid value.
type Dashboard struct {
	TotalPortfolioValue   any            `json:"totalPortfolioValue"`
	TopPerformingStock    *TopPerformer  `json:"topPerformingStock"`
	PortfolioDistribution []Distribution `json:"portfolioDistribution"`
}

// TopPerformer is the JSON shape of the best holding
type TopPerformer struct {
	StockName any `json:"stockName"`
	Gain      any `json:"gain"`
}

// Distribution is the JSON shape of one holding's share
type Distribution struct {
	StockName  any `json:"stockName"`
	Percentage any `json:"percentage"`
}

// FromAggregate converts a domain aggregate for encoding
func FromAggregate(a domain.DashboardAggregate) Dashboard {
	out := Dashboard{
		TotalPortfolioValue: nullNumber(a.TotalPortfolioValue),
		TopPerformingStock: &TopPerformer{
			StockName: a.TopPerformingStock.StockName,
			Gain:      nullNumber(a.TopPerformingStock.Gain),
		},
		PortfolioDistribution: make([]Distribution, 0, len(a.PortfolioDistribution)),
	}
	for _, e := range a.PortfolioDistribution {
		out.PortfolioDistribution = append(out.PortfolioDistribution, Distribution{
			StockName:  e.StockName,
			Percentage: nullNumber(e.Percentage),
		})
	}
	return out
}

// DecodeDashboard reads a dashboard body. Numbers are kept exact.
// It fails only when the body is not a JSON object.
func DecodeDashboard(r io.Reader) (Dashboard, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dashboard{}, err
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return Dashboard{}, fmt.Errorf("dashboard body is not a JSON object")
	}

	var out Dashboard
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

// ToAggregate converts the decoded body into a domain aggregate
func (d Dashboard) ToAggregate() domain.DashboardAggregate {
	out := domain.DashboardAggregate{
		TotalPortfolioValue: lenientNumber(d.TotalPortfolioValue),
		TopPerformingStock: domain.TopPerformer{
			StockName: domain.PlaceholderStockName,
		},
		PortfolioDistribution: make([]domain.DistributionEntry, 0, len(d.PortfolioDistribution)),
	}
	if d.TopPerformingStock != nil {
		if name := stringOf(d.TopPerformingStock.StockName); name != "" {
			out.TopPerformingStock.StockName = name
		}
		out.TopPerformingStock.Gain = lenientNumber(d.TopPerformingStock.Gain)
	}
	for _, e := range d.PortfolioDistribution {
		out.PortfolioDistribution = append(out.PortfolioDistribution, domain.DistributionEntry{
			StockName:  stringOf(e.StockName),
			Percentage: lenientNumber(e.Percentage),
		})
	}
	return out
}

func nullNumber(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return json.Number(d.Decimal.String())
}

// lenientNumber accepts JSON numbers only; strings, booleans and null are invalid
func lenientNumber(v any) decimal.NullDecimal {
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case float64:
		text = decimal.NewFromFloat(n).String()
	default:
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
