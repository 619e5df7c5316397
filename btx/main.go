// Command btx computes option and stock P&L from brokerage exports, in USD and JPY.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/brokertax/cmd"
	"github.com/etnz/brokertax/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("btx")

	commander := subcommands.NewCommander(flag.CommandLine, "btx")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes btx for shell completion (COMP_LINE is set).
func completion() *complete.Command {
	period := map[string]complete.Predictor{
		"year":    predict.Something,
		"period":  predict.Set{"monthly", "quarterly", "yearly"},
		"d":       predict.Something,
		"account": predict.Something,
	}
	with := func(flags map[string]complete.Predictor) map[string]complete.Predictor {
		for k, v := range period {
			flags[k] = v
		}
		return flags
	}
	topics, _ := docs.Topics()

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"report": {Flags: with(map[string]complete.Predictor{
				"kind": predict.Set{"all", "options", "stocks", "income"},
			})},
			"export": {Flags: with(map[string]complete.Predictor{
				"o":      predict.Dirs("*"),
				"format": predict.Set{"csv", "jsonl"},
			})},
			"lots": {
				Flags: map[string]complete.Predictor{"account": predict.Something},
				Args:  predict.Something,
			},
			"topic":    {Args: predict.Set(topics)},
			"help":     {Args: predict.Set{"report", "export", "lots", "topic"}},
			"flags":    {Args: predict.Nothing},
			"commands": {Args: predict.Nothing},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"v":      predict.Nothing,
		},
	}
}
