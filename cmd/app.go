// Package cmd implements the tly command line application to keep a
// multi-account ledger.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/etnz/tally"
	"github.com/etnz/tally/storage/sqlite"
	"github.com/google/subcommands"
)

// Register loads the configuration, declares the global flags and registers the subcommands.
// A main package will call Register() before flag.Parse(), and Execute() on the user-selected one.
func Register(c *subcommands.Commander) error {
	var err error
	cfg, err = LoadConfig()
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.DB, "db", cfg.DB, "Path to the SQLite ledger database ($TALLY_DB)")
	flag.StringVar(&cfg.Currency, "currency", cfg.Currency, "Currency used to display amounts ($TALLY_CURRENCY)")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Log ledger operations and queries on stderr ($TALLY_VERBOSE)")

	c.Register(&initCmd{}, "ledger")
	c.Register(&accountsCmd{}, "ledger")
	c.Register(&addAccountCmd{}, "ledger")

	c.Register(&addCmd{}, "transactions")
	c.Register(&lastIDCmd{}, "transactions")

	c.Register(&monthCmd{}, "reports")
	c.Register(&changesCmd{}, "reports")
	c.Register(&balancesCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
	return nil
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use a global configuration.
var cfg = Config{DB: "data.sqlite", Currency: "EUR"}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the configured ledger database, which must exist.
func openStore(ctx context.Context) (*sqlite.Store, error) {
	if _, err := os.Stat(cfg.DB); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("ledger %q does not exist, run 'tly init' first", cfg.DB)
	}
	return sqlite.Open(ctx, cfg.DB, sqlite.WithLogger(logger()))
}

// openLedger opens the configured ledger. The caller must close the returned store.
func openLedger(ctx context.Context) (*tally.Ledger, *sqlite.Store, error) {
	s, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tally.New(s, tally.WithLogger(logger())), s, nil
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
