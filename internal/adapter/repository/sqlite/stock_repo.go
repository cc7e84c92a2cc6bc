package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
)

const stockColumns = `id, name, ticker, quantity, buy_price, current_price, price_updated_at`

// stockRepository implements domain.StockRepository
type stockRepository struct {
	db *DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *DB) domain.StockRepository {
	return &stockRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner) (*domain.Stock, error) {
	var stock domain.Stock
	var quantityStr, buyPriceStr string
	var currentPrice, priceUpdatedAt sql.NullString

	if err := row.Scan(
		&stock.ID,
		&stock.Name,
		&stock.Ticker,
		&quantityStr,
		&buyPriceStr,
		&currentPrice,
		&priceUpdatedAt,
	); err != nil {
		return nil, err
	}

	quantity, err := decimal.NewFromString(quantityStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	stock.Quantity = quantity

	buyPrice, err := decimal.NewFromString(buyPriceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse buy_price: %w", err)
	}
	stock.BuyPrice = buyPrice

	if currentPrice.Valid {
		price, err := decimal.NewFromString(currentPrice.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_price: %w", err)
		}
		stock.CurrentPrice = &price
	}
	if priceUpdatedAt.Valid {
		at, err := time.Parse(time.RFC3339Nano, priceUpdatedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price_updated_at: %w", err)
		}
		stock.PriceUpdatedAt = &at
	}

	return &stock, nil
}

// List retrieves all stocks ordered by id
func (r *stockRepository) List(ctx context.Context) ([]domain.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	defer rows.Close()

	stocks := []domain.Stock{}
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, *stock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stocks: %w", err)
	}

	return stocks, nil
}

// GetByID retrieves a stock by its ID
func (r *stockRepository) GetByID(ctx context.Context, id int64) (*domain.Stock, error) {
	stock, err := scanStock(r.db.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
		}
		return nil, fmt.Errorf("failed to get stock by ID: %w", err)
	}
	return stock, nil
}

// Create inserts a new stock and returns it with its generated id
func (r *stockRepository) Create(ctx context.Context, input domain.NewStock) (*domain.Stock, error) {
	query := `INSERT INTO stocks (name, ticker, quantity, buy_price) VALUES (?, ?, ?, ?) RETURNING ` + stockColumns

	stock, err := scanStock(r.db.QueryRowContext(ctx, query,
		input.Name,
		input.Ticker,
		input.Quantity.String(),
		input.BuyPrice.String(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create stock: %w", err)
	}
	return stock, nil
}

// Update writes the present fields of the patch
func (r *stockRepository) Update(ctx context.Context, id int64, patch domain.StockPatch) (*domain.Stock, error) {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets, args = append(sets, "name = ?"), append(args, *patch.Name)
	}
	if patch.Ticker != nil {
		sets, args = append(sets, "ticker = ?"), append(args, *patch.Ticker)
	}
	if patch.Quantity != nil {
		sets, args = append(sets, "quantity = ?"), append(args, patch.Quantity.String())
	}
	if patch.BuyPrice != nil {
		sets, args = append(sets, "buy_price = ?"), append(args, patch.BuyPrice.String())
	}
	if patch.CurrentPrice != nil {
		sets, args = append(sets, "current_price = ?"), append(args, patch.CurrentPrice.String())
	}
	if patch.PriceUpdatedAt != nil {
		sets, args = append(sets, "price_updated_at = ?"), append(args, formatTime(*patch.PriceUpdatedAt))
	}
	if patch.ClearPrice {
		if patch.CurrentPrice == nil {
			sets = append(sets, "current_price = NULL")
		}
		if patch.PriceUpdatedAt == nil {
			sets = append(sets, "price_updated_at = NULL")
		}
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE stocks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + stockColumns
	stock, err := scanStock(r.db.QueryRowContext(ctx, query, append(args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	return stock, nil
}

// Delete removes a stock by its ID
func (r *stockRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
	}
	return nil
}

// UpdatePrice sets the live price of every stock with the given ticker
func (r *stockRepository) UpdatePrice(ctx context.Context, ticker string, price decimal.Decimal, at time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE stocks SET current_price = ?, price_updated_at = ? WHERE ticker = ?`,
		price.String(), formatTime(at), ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to update price for %s: %w", ticker, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
