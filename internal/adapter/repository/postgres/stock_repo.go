package postgres

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

// scanStock reads one row selected with stockColumns
func scanStock(row rowScanner) (*domain.Stock, error) {
	var stock domain.Stock
	var quantityStr, buyPriceStr string
	var currentPrice sql.NullString
	var priceUpdatedAt sql.NullTime

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

	// Parse NUMERIC columns
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

	// Parse current_price (nullable)
	if currentPrice.Valid {
		price, err := decimal.NewFromString(currentPrice.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_price: %w", err)
		}
		stock.CurrentPrice = &price
	}
	if priceUpdatedAt.Valid {
		at := priceUpdatedAt.Time.UTC()
		stock.PriceUpdatedAt = &at
	}

	return &stock, nil
}

// List retrieves all stocks ordered by id
func (r *stockRepository) List(ctx context.Context) ([]domain.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
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
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`

	stock, err := scanStock(r.db.QueryRowContext(ctx, query, id))
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
	query := `
		INSERT INTO stocks (name, ticker, quantity, buy_price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + stockColumns

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
	sets, args := patchAssignments(patch)
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE stocks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), stockColumns)

	stock, err := scanStock(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stock %d: %w", id, domain.ErrStockNotFound)
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return stock, nil
}

// patchAssignments builds numbered SET clauses for the present patch fields
func patchAssignments(patch domain.StockPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Ticker != nil {
		add("ticker", *patch.Ticker)
	}
	if patch.Quantity != nil {
		add("quantity", patch.Quantity.String())
	}
	if patch.BuyPrice != nil {
		add("buy_price", patch.BuyPrice.String())
	}
	if patch.CurrentPrice != nil {
		add("current_price", patch.CurrentPrice.String())
	}
	if patch.PriceUpdatedAt != nil {
		add("price_updated_at", patch.PriceUpdatedAt.UTC())
	}
	if patch.ClearPrice {
		if patch.CurrentPrice == nil {
			sets = append(sets, "current_price = NULL")
		}
		if patch.PriceUpdatedAt == nil {
			sets = append(sets, "price_updated_at = NULL")
		}
	}
	return sets, args
}

// Delete removes a stock by its ID
func (r *stockRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stocks WHERE id = $1`, id)
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
	query := `UPDATE stocks SET current_price = $1, price_updated_at = $2 WHERE ticker = $3`

	result, err := r.db.ExecContext(ctx, query, price.String(), at.UTC(), ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to update price for %s: %w", ticker, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(affected), nil
}
