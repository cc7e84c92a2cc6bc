package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/simaogato/stocktracker/internal/cli"
	"github.com/simaogato/stocktracker/internal/config"
	"github.com/simaogato/stocktracker/internal/logger"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	app := cli.NewApp(cfg, log)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, app)

	flag.BoolVar(&app.Raw, "raw", false, "Print plain markdown instead of styled terminal output.")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
