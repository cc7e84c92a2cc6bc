package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stocktracker/internal/domain"
	"github.com/simaogato/stocktracker/internal/usecase/dashboard"
)

// displayCurrency is the currency every amount is shown in
const displayCurrency = money.USD

const wordWrap = 100

// formatMoney renders an amount as "$1,800.00", rounding to the currency's minor unit
func formatMoney(value decimal.Decimal) string {
	cur := *money.New(0, displayCurrency).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// formatPrice renders an optional price, "-" when the backend has not priced the stock yet
func formatPrice(price *decimal.Decimal) string {
	if price == nil {
		return "-"
	}
	return formatMoney(*price)
}

func formatGain(s domain.Stock) string {
	gain, ok := s.Gain()
	if !ok {
		return "-"
	}
	return formatMoney(gain)
}

// printMarkdown renders md with glamour in the given style, or writes it untouched when raw is set
func printMarkdown(w io.Writer, style string, raw bool, md string) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

type table struct {
	header []string
	rows   [][]string
}

func (t table) write(b *strings.Builder) {
	writeRow(b, t.header)
	sep := make([]string, len(t.header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range t.rows {
		writeRow(b, row)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", "\\|"))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// StocksMarkdown renders the holdings table followed by the portfolio total
func StocksMarkdown(stocks []domain.Stock, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("# Stocks\n\n")

	if len(stocks) == 0 {
		b.WriteString("No stocks yet. Add one with `stocktracker add`.\n\n")
	} else {
		t := table{header: []string{"ID", "Name", "Ticker", "Quantity", "Buy Price", "Current Price", "Value", "Gain"}}
		for _, s := range stocks {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", s.ID),
				s.Name,
				s.Ticker,
				s.Quantity.String(),
				formatMoney(s.BuyPrice),
				formatPrice(s.CurrentPrice),
				formatMoney(s.Value()),
				formatGain(s),
			})
		}
		t.write(&b)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Total Portfolio Value:** %s\n", formatMoney(total))
	return b.String()
}

// DashboardMarkdown renders the dashboard display
func DashboardMarkdown(d dashboard.Display) string {
	var b strings.Builder
	b.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&b, "**Total Portfolio Value:** $%s\n\n", d.TotalValue)
	fmt.Fprintf(&b, "**Top Performing Stock:** %s (%s%%)\n\n", d.TopStockName, d.TopStockGain)

	b.WriteString("## Portfolio Distribution\n\n")
	if len(d.Distribution) == 0 {
		b.WriteString("No holdings to distribute.\n")
		return b.String()
	}

	t := table{header: []string{"Stock", "Share"}}
	for _, e := range d.Distribution {
		t.rows = append(t.rows, []string{e.StockName, e.Percentage + "%"})
	}
	t.write(&b)
	return b.String()
}

// CatalogMarkdown renders the predefined stocks offered when adding
func CatalogMarkdown(entries []domain.CatalogEntry) string {
	var b strings.Builder
	b.WriteString("# Catalog\n\n")

	t := table{header: []string{"Name", "Ticker"}}
	for _, e := range entries {
		t.rows = append(t.rows, []string{e.Name, e.Ticker})
	}
	t.write(&b)
	return b.String()
}
