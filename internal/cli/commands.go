package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/simaogato/stocktracker/internal/domain"
)

type dashboardCmd struct {
	app *App
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the portfolio dashboard" }
func (*dashboardCmd) Usage() string {
	return `stocktracker dashboard

  Shows the total value, the top performing stock and the portfolio distribution computed by the server.
  When the server cannot be reached the placeholders are shown and the command fails.
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loadErr := c.app.Dashboard.Load(ctx)

	status := c.app.print(DashboardMarkdown(c.app.Dashboard.Display()))
	if loadErr != nil {
		return c.app.fail(loadErr)
	}
	return status
}

type catalogCmd struct {
	app *App
}

func (*catalogCmd) Name() string     { return "catalog" }
func (*catalogCmd) Synopsis() string { return "list the predefined stocks" }
func (*catalogCmd) Usage() string {
	return `stocktracker catalog

  Lists the well-known stocks that "stocktracker add -pick" accepts.
`
}

func (*catalogCmd) SetFlags(*flag.FlagSet) {}

func (c *catalogCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.print(CatalogMarkdown(domain.Catalog()))
}

type themeCmd struct {
	app *App
}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "show or change the display theme" }
func (*themeCmd) Usage() string {
	return `stocktracker theme [dark|light|toggle]

  Without argument, prints the current theme. Otherwise stores the new theme.
`
}

func (*themeCmd) SetFlags(*flag.FlagSet) {}

func (c *themeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprintln(c.app.Err, "Error: theme takes at most one argument.")
		return subcommands.ExitUsageError
	}

	p, err := c.app.Prefs.Load()
	if err != nil {
		return c.app.fail(err)
	}

	if f.NArg() == 1 {
		switch f.Arg(0) {
		case "dark":
			p.DarkMode = true
		case "light":
			p.DarkMode = false
		case "toggle":
			p.DarkMode = !p.DarkMode
		default:
			fmt.Fprintf(c.app.Err, "Error: unknown theme %q, want dark, light or toggle.\n", f.Arg(0))
			return subcommands.ExitUsageError
		}
		if err := c.app.Prefs.Save(p); err != nil {
			return c.app.fail(err)
		}
	}

	fmt.Fprintf(c.app.Out, "Theme: %s\n", p.Style())
	return subcommands.ExitSuccess
}
