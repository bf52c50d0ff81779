package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	date    string
	details string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income, an expense or a transfer" }
func (*addCmd) Usage() string {
	return `tly add [-d <date>] [-m <details>] income <account> <amount>
tly add [-d <date>] [-m <details>] expense <account> <amount>
tly add [-d <date>] [-m <details>] transfer <from> <to> <amount>

  Records a transaction and updates the balances of its month and of every later month.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.details, "m", "", "Transaction details")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	l, s, err := openLedger(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	id, err := l.Add(ctx, tx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded transaction %d\n", id)
	return subcommands.ExitSuccess
}

// transaction builds the transaction described by the command arguments.
func (c *addCmd) transaction(args []string) (tally.Transaction, error) {
	if len(args) < 3 {
		return tally.Transaction{}, fmt.Errorf("expected a type, account(s) and an amount, got %q", args)
	}
	day, err := date.Parse(c.date)
	if err != nil {
		return tally.Transaction{}, fmt.Errorf("invalid date %q: %w", c.date, err)
	}
	amount, err := decimal.NewFromString(args[len(args)-1])
	if err != nil {
		return tally.Transaction{}, fmt.Errorf("invalid amount %q: %w", args[len(args)-1], err)
	}

	kind, accounts := strings.ToLower(args[0]), args[1:len(args)-1]
	switch {
	case kind == "income" && len(accounts) == 1:
		return tally.NewIncome(day, c.details, accounts[0], amount), nil
	case kind == "expense" && len(accounts) == 1:
		return tally.NewExpense(day, c.details, accounts[0], amount), nil
	case kind == "transfer" && len(accounts) == 2:
		return tally.NewTransfer(day, c.details, accounts[0], accounts[1], amount), nil
	case kind == "income", kind == "expense", kind == "transfer":
		return tally.Transaction{}, fmt.Errorf("wrong number of accounts for %s: %q", kind, accounts)
	default:
		return tally.Transaction{}, fmt.Errorf("unknown transaction type %q, want income, expense or transfer", args[0])
	}
}

type lastIDCmd struct {
	snapshot bool
}

func (*lastIDCmd) Name() string     { return "last-id" }
func (*lastIDCmd) Synopsis() string { return "print the id of the last recorded transaction" }
func (*lastIDCmd) Usage() string {
	return `tly last-id [-snapshot]

  Prints the id of the last recorded transaction, or of the most recent balance snapshot.
`
}

func (c *lastIDCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.snapshot, "snapshot", false, "print the id of the most recent balance snapshot instead")
}

func (c *lastIDCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, s, err := openLedger(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	latest := l.LatestTransactionID
	if c.snapshot {
		latest = l.LatestSnapshotID
	}
	id, err := latest(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Println(id)
	return subcommands.ExitSuccess
}
