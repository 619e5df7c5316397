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

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	kind    string
	period  string
	date    string
	year    int
	account string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display realized P&L and income in USD and JPY" }
func (*reportCmd) Usage() string {
	return `btx report [-kind all|options|stocks|income] [-year <yyyy> | -period <period> -d <date>] [-account <account>]

  Displays option trading and premium P&L, stock gains and income, with
  their JPY conversion. Positions are computed over the whole history, only
  records within the selected range are reported.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "all", "Report section: all, options, stocks or income")
	f.StringVar(&c.period, "period", "", "Report on the period (monthly, quarterly, yearly) containing -d")
	f.StringVar(&c.date, "d", date.Today().String(), "Reference date for -period")
	f.IntVar(&c.year, "year", 0, "Report on a calendar year")
	f.StringVar(&c.account, "account", "", "Restrict to an account")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := renderer.ParseKind(c.kind)
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

	printMarkdown(renderer.ReportMarkdown(res.Select(c.account, r), kind, r))
	return subcommands.ExitSuccess
}

// reportRange returns the date range selected by the flags. Without a year
// nor a period every date is selected.
func reportRange(year int, period, day string) (date.Range, error) {
	if year != 0 && period != "" {
		return date.Range{}, fmt.Errorf("-year and -period are mutually exclusive")
	}
	if year != 0 {
		return date.Year(year), nil
	}
	if period == "" {
		return date.Range{}, nil
	}
	p, err := date.ParsePeriod(period)
	if err != nil {
		return date.Range{}, err
	}
	on, err := date.Parse(day)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return date.NewRange(on, p), nil
}
