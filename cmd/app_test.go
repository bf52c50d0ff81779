package cmd

import (
	"context"
	"flag"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/etnz/tally"
	"github.com/etnz/tally/storage/sqlite"
	"github.com/google/subcommands"
)

// run parses args with the flags of c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: parsing %q failed: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func TestCommands(t *testing.T) {
	cfg = Config{DB: filepath.Join(t.TempDir(), "data.sqlite"), Currency: "EUR"}

	if got := run(t, &accountsCmd{}); got != subcommands.ExitFailure {
		t.Errorf("accounts before init = %v, want ExitFailure", got)
	}
	steps := []struct {
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{&initCmd{}, nil, subcommands.ExitUsageError},
		{&initCmd{}, []string{"test1", "test 2"}, subcommands.ExitSuccess},
		{&initCmd{}, []string{"test1"}, subcommands.ExitFailure},
		{&lastIDCmd{}, nil, subcommands.ExitFailure},
		{&addCmd{}, []string{"-d", "2022-07-19", "expense", "test1", "100.00"}, subcommands.ExitSuccess},
		{&addCmd{}, []string{"-d", "2022-07-19", "expense", "test 2", "100.00"}, subcommands.ExitSuccess},
		{&addCmd{}, []string{"-d", "2022-05-15", "expense", "test 2", "100.00"}, subcommands.ExitSuccess},
		{&addCmd{}, []string{"-d", "2022-05-20", "income", "test 2", "100.00"}, subcommands.ExitSuccess},
		{&addCmd{}, []string{"-d", "2022-05-20", "income", "Wallet", "1"}, subcommands.ExitFailure},
		{&addCmd{}, []string{"income", "test1"}, subcommands.ExitUsageError},
		{&addAccountCmd{}, []string{"Cash"}, subcommands.ExitSuccess},
		{&addAccountCmd{}, []string{"Cash"}, subcommands.ExitFailure},
		{&lastIDCmd{}, nil, subcommands.ExitSuccess},
		{&lastIDCmd{}, []string{"-snapshot"}, subcommands.ExitSuccess},
		{&accountsCmd{}, nil, subcommands.ExitSuccess},
		{&monthCmd{}, []string{"-m", "7", "-y", "2022"}, subcommands.ExitSuccess},
		{&monthCmd{}, []string{"-d", "2022-05-01", "-json"}, subcommands.ExitSuccess},
		{&monthCmd{}, []string{"-m", "13"}, subcommands.ExitUsageError},
		{&changesCmd{}, []string{"-d", "2022-07-01"}, subcommands.ExitSuccess},
		{&changesCmd{}, []string{"-d", "2022-06-01"}, subcommands.ExitSuccess},
		{&balancesCmd{}, nil, subcommands.ExitSuccess},
	}
	for _, s := range steps {
		if got := run(t, s.cmd, s.args...); got != s.want {
			t.Errorf("%s %q = %v, want %v", s.cmd.Name(), s.args, got, s.want)
		}
	}

	ctx := context.Background()
	store, err := sqlite.Open(ctx, cfg.DB)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()
	l := tally.New(store)

	accounts, err := l.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts() error = %v", err)
	}
	if want := (tally.Accounts{"test1", "test 2", "Cash"}); !reflect.DeepEqual(accounts, want) {
		t.Errorf("Accounts() = %q, want %q", accounts, want)
	}
	m, err := l.Replay(ctx, tally.Period{Month: 6})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	want := [][]string{{"-100.00", "0.00", "0.00"}, {"-100.00", "-100.00", "0.00"}}
	if !reflect.DeepEqual(m.Balances, want) {
		t.Errorf("Replay(July) balances = %q, want %q", m.Balances, want)
	}
}

func TestCompletion(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("tly", flag.ContinueOnError), "tly")
	c.Register(&addCmd{}, "")
	c.Register(&monthCmd{}, "")
	c.Register(&topicCmd{}, "")

	root := Completion(c)
	for _, name := range []string{"add", "month", "topic"} {
		if _, ok := root.Sub[name]; !ok {
			t.Errorf("Completion() has no %q command", name)
		}
	}
	if _, ok := root.Sub["month"].Flags["json"]; !ok {
		t.Error("Completion() month has no -json flag")
	}
	if root.Sub["add"].Args == nil {
		t.Error("Completion() add has no argument predictor")
	}
}
