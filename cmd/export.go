package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/brokertax/date"
	"github.com/etnz/brokertax/renderer"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output  string
	format  string
	year    int
	period  string
	date    string
	account string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export trade, summary and income records to files" }
func (*exportCmd) Usage() string {
	return `btx export [-o <dir>] [-format csv|jsonl] [-year <yyyy> | -period <period> -d <date>] [-account <account>]

  Writes option_trades, option_summary, stock_trades, stock_summary, income
  and income_summary files in the output directory.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output directory (default from the configuration)")
	f.StringVar(&c.format, "format", "csv", "File format: csv or jsonl")
	f.IntVar(&c.year, "year", 0, "Export a calendar year")
	f.StringVar(&c.period, "period", "", "Export the period (monthly, quarterly, yearly) containing -d")
	f.StringVar(&c.date, "d", date.Today().String(), "Reference date for -period")
	f.StringVar(&c.account, "account", "", "Restrict to an account")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := renderer.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	r, err := reportRange(c.year, c.period, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

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

	dir := c.output
	if dir == "" {
		dir = cfg.OutputDir
	}
	paths, err := renderer.Export(res.Select(c.account, r), dir, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return subcommands.ExitSuccess
}
