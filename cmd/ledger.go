package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/tally/renderer"
	"github.com/etnz/tally/storage/sqlite"
	"github.com/google/subcommands"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new ledger with its accounts" }
func (*initCmd) Usage() string {
	return `tly init <account>...

  Creates the ledger database with one balance column per account, in the given order.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one account is required")
		return subcommands.ExitUsageError
	}
	if _, err := os.Stat(cfg.DB); errors.Is(err, fs.ErrNotExist) {
		log.Printf("creating ledger database %q", cfg.DB)
	}
	s, err := sqlite.Open(ctx, cfg.DB, sqlite.WithLogger(logger()))
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.Bootstrap(ctx, f.Args()); err != nil {
		return fail(err)
	}
	fmt.Printf("Initialized ledger %s with %d account(s)\n", cfg.DB, f.NArg())
	return subcommands.ExitSuccess
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts of the ledger" }
func (*accountsCmd) Usage() string {
	return `tly accounts

  Lists the accounts in column order.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, s, err := openLedger(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	accounts, err := l.Accounts(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Accounts(accounts))
	return subcommands.ExitSuccess
}

type addAccountCmd struct{}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "append new accounts to the ledger" }
func (*addAccountCmd) Usage() string {
	return `tly add-account <account>...

  Appends accounts after the existing ones. Their balance starts at zero.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one account is required")
		return subcommands.ExitUsageError
	}
	s, err := openStore(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.AddAccounts(ctx, f.Args()); err != nil {
		return fail(err)
	}
	fmt.Printf("Added %d account(s)\n", f.NArg())
	return subcommands.ExitSuccess
}
