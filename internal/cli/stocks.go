package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/simaogato/stocktracker/internal/domain"
)

type listCmd struct {
	app *App
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the stocks in the portfolio" }
func (*listCmd) Usage() string {
	return `stocktracker list

  Fetches the portfolio and prints every stock with its current value and the portfolio total.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.load(ctx); err != nil {
		return c.app.fail(err)
	}
	return c.app.print(StocksMarkdown(c.app.Stocks.Stocks(), c.app.Stocks.ComputeTotalValue()))
}

type addCmd struct {
	app *App

	pick     string
	name     string
	ticker   string
	quantity string
	buyPrice string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a stock to the portfolio" }
func (*addCmd) Usage() string {
	return `stocktracker add [-pick <name|ticker>] [-name <name>] [-ticker <ticker>] [-q <quantity>] -p <buy_price>

  Adds a stock. -pick fills both name and ticker from the catalog (see "stocktracker catalog");
  -name and -ticker set them as free text. Quantity defaults to 1.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pick, "pick", "", "Catalog entry to add, by name or ticker.")
	f.StringVar(&c.name, "name", "", "Stock name.")
	f.StringVar(&c.ticker, "ticker", "", "Stock ticker.")
	f.StringVar(&c.quantity, "q", domain.DefaultQuantity, "Number of shares.")
	f.StringVar(&c.buyPrice, "p", "", "Buy price per share.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	model := c.app.Stocks
	model.ResetDraft()

	if c.pick != "" {
		if err := model.SelectCatalogTicker(c.pick); err != nil {
			if err := model.SelectCatalogName(c.pick); err != nil {
				return c.app.fail(err)
			}
		}
	}
	for field, value := range map[domain.Field]string{
		domain.FieldName:   c.name,
		domain.FieldTicker: c.ticker,
	} {
		if value == "" {
			continue
		}
		if err := model.SetDraftField(field, value); err != nil {
			return c.app.fail(err)
		}
	}
	if err := model.SetDraftField(domain.FieldQuantity, c.quantity); err != nil {
		return c.app.fail(err)
	}
	if err := model.SetDraftField(domain.FieldBuyPrice, c.buyPrice); err != nil {
		return c.app.fail(err)
	}

	stock, err := model.SubmitNew(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.Out, "Added %s (%s) with id %d\n", stock.Name, stock.Ticker, stock.ID)
	return subcommands.ExitSuccess
}

// editFlags maps the edit flag names to the fields they change
var editFlags = map[string]domain.Field{
	"name":   domain.FieldName,
	"ticker": domain.FieldTicker,
	"q":      domain.FieldQuantity,
	"p":      domain.FieldBuyPrice,
}

type editCmd struct {
	app *App

	name     string
	ticker   string
	quantity string
	buyPrice string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change the fields of one stock" }
func (*editCmd) Usage() string {
	return `stocktracker edit [-name <name>] [-ticker <ticker>] [-q <quantity>] [-p <buy_price>] <id>

  Changes only the given fields of the stock. The current price is maintained by the server.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New stock name.")
	f.StringVar(&c.ticker, "ticker", "", "New stock ticker.")
	f.StringVar(&c.quantity, "q", "", "New number of shares.")
	f.StringVar(&c.buyPrice, "p", "", "New buy price per share.")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.app.Err, "Error: edit takes exactly one stock id.")
		return subcommands.ExitUsageError
	}
	id, err := parseID(f.Arg(0))
	if err != nil {
		return c.app.fail(err)
	}

	changes := make(map[domain.Field]string)
	f.Visit(func(fl *flag.Flag) {
		if field, ok := editFlags[fl.Name]; ok {
			changes[field] = fl.Value.String()
		}
	})
	if len(changes) == 0 {
		fmt.Fprintln(c.app.Err, "Error: nothing to change, pass at least one of -name, -ticker, -q, -p.")
		return subcommands.ExitUsageError
	}

	if err := c.app.load(ctx); err != nil {
		return c.app.fail(err)
	}

	model := c.app.Stocks
	if err := model.BeginEditByID(id); err != nil {
		return c.app.fail(fmt.Errorf("stock %d: %w", id, err))
	}
	for field, value := range changes {
		if err := model.UpdateEditField(field, value); err != nil {
			model.DiscardEdit()
			return c.app.fail(err)
		}
	}
	if err := model.SaveEdit(ctx); err != nil {
		model.DiscardEdit()
		return c.app.fail(err)
	}

	fmt.Fprintf(c.app.Out, "Updated stock %d\n", id)
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	app *App
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove stocks from the portfolio" }
func (*deleteCmd) Usage() string {
	return `stocktracker delete <id> [<id>...]

  Removes the given stocks. Every id is attempted even if an earlier one fails.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(c.app.Err, "Error: delete needs at least one stock id.")
		return subcommands.ExitUsageError
	}

	ids := make([]int64, 0, f.NArg())
	for _, arg := range f.Args() {
		id, err := parseID(arg)
		if err != nil {
			return c.app.fail(err)
		}
		ids = append(ids, id)
	}

	status := subcommands.ExitSuccess
	for _, id := range ids {
		if err := c.app.Stocks.Remove(ctx, id); err != nil {
			fmt.Fprintln(c.app.Err, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(c.app.Out, "Deleted stock %d\n", id)
	}
	return status
}

type valueCmd struct {
	app *App
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "print the total portfolio value" }
func (*valueCmd) Usage() string {
	return `stocktracker value

  Prints the sum of quantity times current price. Stocks without a price yet count as zero.
`
}

func (*valueCmd) SetFlags(*flag.FlagSet) {}

func (c *valueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.app.load(ctx); err != nil {
		return c.app.fail(err)
	}
	return c.app.print(fmt.Sprintf("**Total Portfolio Value:** %s\n", formatMoney(c.app.Stocks.ComputeTotalValue())))
}
