// Package cli implements the stocktracker command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/simaogato/stocktracker/internal/adapter/prefs"
	"github.com/simaogato/stocktracker/internal/adapter/rest"
	"github.com/simaogato/stocktracker/internal/config"
	"github.com/simaogato/stocktracker/internal/domain"
	"github.com/simaogato/stocktracker/internal/usecase/dashboard"
	"github.com/simaogato/stocktracker/internal/usecase/portfolio"
)

// App holds what the subcommands share during one invocation
type App struct {
	Stocks    *portfolio.Model
	Dashboard *dashboard.View
	Prefs     *prefs.Store
	Out       io.Writer
	Err       io.Writer
	Raw       bool // print markdown without terminal styling
}

// NewApp wires the REST clients, the portfolio model and the dashboard view from configuration
func NewApp(cfg *config.ClientConfig, log zerolog.Logger) *App {
	client := rest.NewClient(nil, log)
	return &App{
		Stocks:    portfolio.NewModel(rest.NewStockClient(client, cfg.StocksAPIURL), log),
		Dashboard: dashboard.NewView(rest.NewDashboardClient(client, cfg.DashboardAPIURL), log),
		Prefs:     prefs.NewStore(cfg.PrefsPath),
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
}

// Register the subcommands.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&listCmd{app: app}, "stocks")
	c.Register(&addCmd{app: app}, "stocks")
	c.Register(&editCmd{app: app}, "stocks")
	c.Register(&deleteCmd{app: app}, "stocks")
	c.Register(&valueCmd{app: app}, "stocks")
	c.Register(&catalogCmd{app: app}, "stocks")

	c.Register(&dashboardCmd{app: app}, "dashboard")

	c.Register(&themeCmd{app: app}, "preferences")
}

// print renders md in the preferred style
func (a *App) print(md string) subcommands.ExitStatus {
	p, err := a.Prefs.Load()
	if err != nil {
		// a broken preferences file must not hide the output
		fmt.Fprintln(a.Err, err)
	}
	if err := printMarkdown(a.Out, p.Style(), a.Raw, md); err != nil {
		fmt.Fprintln(a.Err, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// fail reports err and returns the matching exit status
func (a *App) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(a.Err, err)
	if domain.IsValidation(err) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// load fetches the collection; subcommands that address stocks by id need it
func (a *App) load(ctx context.Context) error {
	if err := a.Stocks.Load(ctx); err != nil {
		return fmt.Errorf("failed to load stocks: %w", err)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a stock id", arg)}
	}
	return id, nil
}
