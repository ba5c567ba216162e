package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/fadedpez/tablejack/internal/config"
	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/simulator"
)

// SimulateCmd plays rounds without pacing and prints the totals
type SimulateCmd struct {
	Rounds  int    `kong:"default='10000',help='Rounds to play'"`
	Workers int    `kong:"default='0',help='Parallel tables (0 uses every CPU)'"`
	Seats   int    `kong:"default='1',help='Seats played per table'"`
	Bet     int64  `kong:"default='100',help='Bet per seat (must be even)'"`
	Seed    int64  `kong:"default='0',help='Seed for the shuffles (0 picks one)'"`
	Rules   string `kong:"type='path',help='Table rules HCL file; only the deck count is used'"`
	JSON    bool   `kong:"help='Print the report as JSON'"`
}

func (c *SimulateCmd) Run(logger *logging.Logger) error {
	rules, err := config.LoadRules(c.Rules)
	if err != nil {
		return err
	}

	cfg := simulator.DefaultConfig()
	cfg.Rounds = c.Rounds
	cfg.Workers = c.Workers
	cfg.Seats = c.Seats
	cfg.Bet = entities.Amount(c.Bet)
	cfg.Seed = c.Seed
	cfg.NumDecks = rules.Decks
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := simulator.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("rounds:   %d (%d aborted)\n", report.Rounds, report.Aborted)
	fmt.Printf("hands:    %d (%d doubles, %d splits)\n", report.Hands, report.Doubles, report.Splits)
	outcomes := make([]string, 0, len(report.Outcomes))
	for outcome := range report.Outcomes {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		n := report.Outcomes[entities.Outcome(outcome)]
		fmt.Printf("%-9s %d (%.2f%%)\n", outcome+":", n, float64(n)/float64(report.Hands)*100)
	}
	fmt.Printf("wagered:  %d\n", report.Wagered)
	fmt.Printf("net:      %d\n", report.Net)
	fmt.Printf("edge:     %.3f%%\n", report.HouseEdge())
	fmt.Printf("elapsed:  %s\n", report.Duration)
	return nil
}
