package domain

import "github.com/shopspring/decimal"

// PlaceholderStockName is shown when no top-performing stock is known
const PlaceholderStockName = "N/A"

// DashboardAggregate is the server-computed summary of the whole portfolio.
// Numeric fields are nullable so that a value the server sent in an unexpected shape
// can be carried to the view, which renders it as zero.
type DashboardAggregate struct {
	TotalPortfolioValue   decimal.NullDecimal
	TopPerformingStock    TopPerformer
	PortfolioDistribution []DistributionEntry
}

// TopPerformer is the holding with the highest gain
type TopPerformer struct {
	StockName string
	Gain      decimal.NullDecimal
}

// DistributionEntry is one holding's share of the total portfolio value, in percent
type DistributionEntry struct {
	StockName  string
	Percentage decimal.NullDecimal
}

// PlaceholderAggregate is displayed while the aggregate is loading or could not be fetched
func PlaceholderAggregate() DashboardAggregate {
	return DashboardAggregate{
		TotalPortfolioValue:   decimal.NewNullDecimal(decimal.Zero),
		TopPerformingStock:    TopPerformer{StockName: PlaceholderStockName, Gain: decimal.NewNullDecimal(decimal.Zero)},
		PortfolioDistribution: []DistributionEntry{},
	}
}
