package main

import (
	"github.com/alecthomas/kong"

	"github.com/fadedpez/tablejack/internal/logging"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	LogLevel string           `kong:"default='info',env='LOG_LEVEL',help='Log level (debug, info, warn, error)'"`

	Serve    ServeCmd    `cmd:"" help:"Run the table server"`
	Simulate SimulateCmd `cmd:"" help:"Play headless rounds with basic strategy"`
	Token    TokenCmd    `cmd:"" help:"Mint a token for an existing session"`
	Migrate  MigrateCmd  `cmd:"" help:"Apply the SQL schema"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tablejack"),
		kong.Description("Single-player blackjack table server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	logger := logging.NewLogger(logging.ParseLevel(cli.LogLevel))
	logging.Default = logger
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
