package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/etnz/tally/renderer"
	"github.com/google/subcommands"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// periodFlags selects the month of a report.
type periodFlags struct {
	date  string
	month int
	year  int
}

func (p *periodFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Any day of the month to report (YYYY-MM-DD), defaults to today")
	f.IntVar(&p.month, "m", 0, "Month number (1-12), overrides the month of -d")
	f.IntVar(&p.year, "y", 0, "Year, overrides the year of -d")
}

// period returns the selected month.
func (p *periodFlags) period() (tally.Period, error) {
	day := date.Today()
	if p.date != "" {
		d, err := date.Parse(p.date)
		if err != nil {
			return tally.Period{}, fmt.Errorf("invalid date %q: %w", p.date, err)
		}
		day = d
	}
	period := tally.PeriodOf(day)
	if p.month != 0 {
		period.Month = p.month - 1
	}
	if p.year != 0 {
		period.Year = p.year - tally.EpochYear
	}
	return period, period.Validate()
}

type monthCmd struct {
	periodFlags
	json bool
}

func (*monthCmd) Name() string     { return "month" }
func (*monthCmd) Synopsis() string { return "replay the transactions of a month with running balances" }
func (*monthCmd) Usage() string {
	return `tly month [-d <date>] [-m <month>] [-y <year>] [-json]

  Displays every transaction of the month followed by the balance of each account.
  The balances at the end of the month are saved as the month snapshot.
`
}

func (c *monthCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "print the replay as JSON")
}

func (c *monthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := c.period()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	l, s, err := openLedger(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	m, err := l.Replay(ctx, p)
	if err != nil {
		return fail(err)
	}
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		out := struct {
			Period string `json:"period"`
			*tally.MonthReplay
		}{p.String(), m}
		if err := enc.Encode(out); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.Month(p, m, cfg.Currency))
	return subcommands.ExitSuccess
}

type changesCmd struct {
	periodFlags
}

func (*changesCmd) Name() string     { return "changes" }
func (*changesCmd) Synopsis() string { return "display the balance changes recorded for a month" }
func (*changesCmd) Usage() string {
	return `tly changes [-d <date>] [-m <month>] [-y <year>]

  Displays the change of every account caused by each transaction of the month.
`
}

func (c *changesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := c.period()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	l, s, err := openLedger(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	accounts, err := l.Accounts(ctx)
	if err != nil {
		return fail(err)
	}
	rows, err := l.Changes(ctx, p)
	if err != nil {
		return fail(err)
	}
	var placeholder []string
	if len(rows) == 0 {
		if placeholder, err = l.EmptyChanges(ctx); err != nil {
			return fail(err)
		}
	}
	printMarkdown(renderer.Changes(p, accounts, rows, placeholder, cfg.Currency))
	return subcommands.ExitSuccess
}

type balancesCmd struct{}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the latest balance of every account" }
func (*balancesCmd) Usage() string {
	return `tly balances

  Displays the balances of the most recent month snapshot.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, s, err := openLedger(ctx)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	accounts, err := l.Accounts(ctx)
	if err != nil {
		return fail(err)
	}
	values, err := l.LatestBalances(ctx, accounts)
	if errors.Is(err, tally.ErrNotFound) {
		// no month was ever replayed
		values = tally.NewBalances(accounts).Fixed()
	} else if err != nil {
		return fail(err)
	}
	md, err := renderer.Balances(accounts, values, cfg.Currency)
	if err != nil {
		return fail(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
