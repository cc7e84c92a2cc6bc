package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
	"github.com/simaogato/stocktracker/internal/usecase/allocator"
)

// DashboardService computes the portfolio aggregate served to clients
type DashboardService struct {
	StockRepo domain.StockRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(stockRepo domain.StockRepository) *DashboardService {
	return &DashboardService{
		StockRepo: stockRepo,
	}
}

// Aggregate calculates the dashboard aggregate
// Logic:
//   - Total: Sum of quantity × current price over all stocks (unpriced stocks count as zero)
//   - Top performer: highest gain percentage among priced stocks with a non-zero buy price
//   - Distribution: each stock's share of the total, see allocator.CalculateDistribution
func (s *DashboardService) Aggregate(ctx context.Context) (*domain.DashboardAggregate, error) {
	stocks, err := s.StockRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}

	// 1. Total value
	total := domain.TotalValue(stocks)

	// 2. Top performer
	top := domain.TopPerformer{
		StockName: domain.PlaceholderStockName,
		Gain:      decimal.NewNullDecimal(decimal.Zero),
	}
	var best *decimal.Decimal
	for _, stock := range stocks {
		gain, ok := stock.GainPercent()
		if !ok {
			continue
		}
		if best == nil || gain.GreaterThan(*best) {
			g := gain
			best = &g
			top.StockName = stock.Name
		}
	}
	if best != nil {
		top.Gain = decimal.NewNullDecimal(best.Round(2))
	}

	// 3. Distribution
	holdings := make([]allocator.Holding, 0, len(stocks))
	for _, stock := range stocks {
		holdings = append(holdings, allocator.Holding{StockName: stock.Name, Value: stock.Value()})
	}
	distribution, err := allocator.CalculateDistribution(holdings)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate distribution: %w", err)
	}

	return &domain.DashboardAggregate{
		TotalPortfolioValue:   decimal.NewNullDecimal(total),
		TopPerformingStock:    top,
		PortfolioDistribution: distribution,
	}, nil
}
