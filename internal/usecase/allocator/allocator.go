package allocator

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// percentPlaces is the precision of every reported share
const percentPlaces = 2

// Holding is one position's contribution to the portfolio value
type Holding struct {
	StockName string
	Value     decimal.Decimal
}

// CalculateDistribution splits 100% of the portfolio value across holdings.
// Logic:
//  1. Sort holdings by Value (Higher = First), ties broken by name
//  2. Round each holding's share of the total to two decimals
//  3. Assign the rounding leftover to the largest holding
//
// Safety: Ensures the reported percentages sum to exactly 100.
// An empty portfolio or one without any priced value yields an empty distribution.
func CalculateDistribution(holdings []Holding) ([]domain.DistributionEntry, error) {
	total := decimal.Zero
	for _, h := range holdings {
		if h.Value.IsNegative() {
			return nil, errors.New("holding value must not be negative")
		}
		total = total.Add(h.Value)
	}
	if total.IsZero() {
		return []domain.DistributionEntry{}, nil
	}

	// Copy to avoid reordering the caller's slice
	sorted := make([]Holding, len(holdings))
	copy(sorted, holdings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Value.Equal(sorted[j].Value) {
			return sorted[i].Value.GreaterThan(sorted[j].Value)
		}
		return sorted[i].StockName < sorted[j].StockName
	})

	shares := make([]decimal.Decimal, len(sorted))
	allocated := decimal.Zero
	for i, h := range sorted {
		shares[i] = h.Value.Mul(hundred).Div(total).Round(percentPlaces)
		allocated = allocated.Add(shares[i])
	}

	// Leftover from rounding goes to the largest holding
	shares[0] = shares[0].Add(hundred.Sub(allocated))

	distribution := make([]domain.DistributionEntry, len(sorted))
	sum := decimal.Zero
	for i, h := range sorted {
		distribution[i] = domain.DistributionEntry{
			StockName:  h.StockName,
			Percentage: decimal.NewNullDecimal(shares[i]),
		}
		sum = sum.Add(shares[i])
	}

	if !sum.Equal(hundred) {
		return nil, errors.New("distribution does not sum to 100")
	}

	return distribution, nil
}
