// Package cmd implements the btx command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/brokertax"
	"github.com/etnz/brokertax/config"
	"github.com/etnz/brokertax/rate"
	"github.com/etnz/brokertax/schwab"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&lotsCmd{}, "reports")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default $BTX_CONFIG or btx.yaml)")
var verbose = flag.Bool("v", false, "Verbose output, log at debug level")

// loadConfig reads the .env file, the configuration file and sets up logging.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read .env: %w", err)
	}
	path := *configFile
	if path == "" {
		path = os.Getenv("BTX_CONFIG")
	}
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging.Level, *verbose)
	return cfg, nil
}

// setupLogging installs the default slog logger writing text on stderr.
func setupLogging(level string, verbose bool) {
	lvl, ok := config.ParseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	if !ok {
		slog.Warn("unknown log level, using info", "level", level)
	}
}

// process loads the transactions of cfg and processes the whole history.
// Unreadable rows are reported as warnings of the result.
func process(cfg *config.Config) (*brokertax.Result, *brokertax.Processor, error) {
	loader := &schwab.Loader{Aliases: cfg.AccountAliases, Logger: slog.Default()}
	txs, rowErrs, err := loader.Glob(cfg.TransactionFiles...)
	if err != nil {
		return nil, nil, err
	}
	rates := rate.Load(cfg.Exchange.HistoryFile, cfg.Exchange.DefaultRate)

	p := brokertax.NewProcessor(rates, slog.Default())
	res := p.Process(txs)
	for _, err := range rowErrs {
		res.Warnings = append(res.Warnings, brokertax.Warning{Err: err})
	}
	slog.Debug("history processed", "transactions", len(txs), "warnings", len(res.Warnings))
	return res, p, nil
}

// printMarkdown renders md for the terminal, raw when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
