package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a live price observation for a ticker
type Quote struct {
	Ticker string
	Price  decimal.Decimal
	AsOf   time.Time // trading day the price belongs to
}
