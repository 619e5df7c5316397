package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct {
	account string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the open lots of every position" }
func (*lotsCmd) Usage() string {
	return `btx lots [-account <account>] [<symbol>...]

  Displays the lots still open after processing the whole history, in FIFO
  order. Symbols select positions whose symbol or underlying matches.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Restrict to an account")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	res, _, err := process(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LotsMarkdown(selectPositions(res.OpenPositions, c.account, f.Args())))
	return subcommands.ExitSuccess
}

// selectPositions keeps the positions of account whose symbol, or option
// underlying, is one of symbols. Empty filters keep everything.
func selectPositions(positions []brokertax.OpenPosition, account string, symbols []string) []brokertax.OpenPosition {
	var selected []brokertax.OpenPosition
	for _, p := range positions {
		if account != "" && p.Account != account {
			continue
		}
		if len(symbols) > 0 && !matchSymbol(p.Symbol, symbols) {
			continue
		}
		selected = append(selected, p)
	}
	return selected
}

func matchSymbol(symbol string, symbols []string) bool {
	underlying := symbol
	if o, ok := brokertax.ParseOptionSymbol(symbol); ok {
		underlying = o.Underlying
	}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == symbol || s == underlying {
			return true
		}
	}
	return false
}
