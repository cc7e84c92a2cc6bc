package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field names a locally editable stock attribute. The current price is never locally authored.
type Field string

const (
	FieldName     Field = "name"
	FieldTicker   Field = "ticker"
	FieldQuantity Field = "quantity"
	FieldBuyPrice Field = "buyPrice"
)

// ParseField converts a form field name into a Field
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldName, FieldTicker, FieldQuantity, FieldBuyPrice:
		return f, nil
	default:
		return "", ErrUnknownField
	}
}

// DefaultQuantity is used when a new stock is submitted without a quantity
const DefaultQuantity = "1"

// NewStockDraft is the in-progress "add stock" form. Values are kept as typed text and only parsed on submit.
type NewStockDraft struct {
	Name     string
	Ticker   string
	Quantity string
	BuyPrice string
}

// DefaultNewStockDraft returns an empty draft with the default quantity
func DefaultNewStockDraft() NewStockDraft {
	return NewStockDraft{Quantity: DefaultQuantity}
}

// Set changes one field of the draft
func (d *NewStockDraft) Set(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldTicker:
		d.Ticker = value
	case FieldQuantity:
		d.Quantity = value
	case FieldBuyPrice:
		d.BuyPrice = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Parse validates the draft and converts it into a create payload.
// Name, ticker and buy price are required; an empty quantity defaults to 1.
func (d NewStockDraft) Parse() (NewStock, error) {
	if isBlank(d.Name) {
		return NewStock{}, &ValidationError{Field: string(FieldName), Reason: "is required"}
	}
	if isBlank(d.Ticker) {
		return NewStock{}, &ValidationError{Field: string(FieldTicker), Reason: "is required"}
	}
	if isBlank(d.BuyPrice) {
		return NewStock{}, &ValidationError{Field: string(FieldBuyPrice), Reason: "is required"}
	}

	quantityText := d.Quantity
	if isBlank(quantityText) {
		quantityText = DefaultQuantity
	}
	quantity, err := parseQuantity(quantityText)
	if err != nil {
		return NewStock{}, err
	}
	buyPrice, err := parseBuyPrice(d.BuyPrice)
	if err != nil {
		return NewStock{}, err
	}

	return NewStock{
		Name:     strings.TrimSpace(d.Name),
		Ticker:   strings.TrimSpace(d.Ticker),
		Quantity: quantity,
		BuyPrice: buyPrice,
	}, nil
}

// EditDraft is the unsaved shadow of exactly one stock
type EditDraft struct {
	ID       int64
	Name     string
	Ticker   string
	Quantity string
	BuyPrice string
}

// NewEditDraft initializes a draft as a copy of the stock's editable fields
func NewEditDraft(s Stock) EditDraft {
	return EditDraft{
		ID:       s.ID,
		Name:     s.Name,
		Ticker:   s.Ticker,
		Quantity: s.Quantity.String(),
		BuyPrice: s.BuyPrice.String(),
	}
}

// Set changes one field of the draft without validating it
func (d *EditDraft) Set(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldTicker:
		d.Ticker = value
	case FieldQuantity:
		d.Quantity = value
	case FieldBuyPrice:
		d.BuyPrice = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Patch validates the draft and converts it into an update payload
func (d EditDraft) Patch() (StockPatch, error) {
	if isBlank(d.Name) {
		return StockPatch{}, &ValidationError{Field: string(FieldName), Reason: "is required"}
	}
	if isBlank(d.Ticker) {
		return StockPatch{}, &ValidationError{Field: string(FieldTicker), Reason: "is required"}
	}
	quantity, err := parseQuantity(d.Quantity)
	if err != nil {
		return StockPatch{}, err
	}
	buyPrice, err := parseBuyPrice(d.BuyPrice)
	if err != nil {
		return StockPatch{}, err
	}

	name := strings.TrimSpace(d.Name)
	ticker := strings.TrimSpace(d.Ticker)
	return StockPatch{
		Name:     &name,
		Ticker:   &ticker,
		Quantity: &quantity,
		BuyPrice: &buyPrice,
	}, nil
}

func parseQuantity(text string) (decimal.Decimal, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: string(FieldQuantity), Reason: "must be a number"}
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &ValidationError{Field: string(FieldQuantity), Reason: "must be positive"}
	}
	return quantity, nil
}

func parseBuyPrice(text string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: string(FieldBuyPrice), Reason: "must be a number"}
	}
	if price.IsNegative() {
		return decimal.Zero, &ValidationError{Field: string(FieldBuyPrice), Reason: "must not be negative"}
	}
	return price, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
