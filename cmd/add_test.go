package cmd

import (
	"testing"
	"time"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

func TestAddTransaction(t *testing.T) {
	day := date.New(2022, time.July, 19)
	testCases := []struct {
		name    string
		args    []string
		want    tally.Transaction
		wantErr bool
	}{
		{
			name: "income",
			args: []string{"income", "Bank", "1500"},
			want: tally.NewIncome(day, "salary", "Bank", decimal.NewFromInt(1500)),
		},
		{
			name: "expense with spaces",
			args: []string{"Expense", "test 2", "100.00"},
			want: tally.NewExpense(day, "salary", "test 2", decimal.NewFromInt(100)),
		},
		{
			name: "transfer",
			args: []string{"transfer", "Bank", "Cash", "200.50"},
			want: tally.NewTransfer(day, "salary", "Bank", "Cash", decimal.RequireFromString("200.50")),
		},
		{name: "missing amount", args: []string{"income", "Bank"}, wantErr: true},
		{name: "bad amount", args: []string{"income", "Bank", "ten"}, wantErr: true},
		{name: "transfer with one account", args: []string{"transfer", "Bank", "200"}, wantErr: true},
		{name: "income with two accounts", args: []string{"income", "Bank", "Cash", "200"}, wantErr: true},
		{name: "unknown type", args: []string{"refund", "Bank", "200"}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &addCmd{date: "2022-07-19", details: "salary"}
			got, err := c.transaction(tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("transaction(%q) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if got.Date != tc.want.Date || got.Details != tc.want.Details || got.Ref != tc.want.Ref || !got.Amount.Equal(tc.want.Amount) {
				t.Errorf("transaction(%q) = %+v, want %+v", tc.args, got, tc.want)
			}
		})
	}
}

func TestAddTransactionInvalidDate(t *testing.T) {
	c := &addCmd{date: "19/07/2022"}
	if _, err := c.transaction([]string{"income", "Bank", "1"}); err == nil {
		t.Error("transaction() with an invalid date error = nil, want an error")
	}
}

func TestPeriodFlags(t *testing.T) {
	testCases := []struct {
		name    string
		flags   periodFlags
		want    tally.Period
		wantErr bool
	}{
		{name: "date", flags: periodFlags{date: "2023-03-15"}, want: tally.Period{Month: 2, Year: 1}},
		{name: "month overrides date", flags: periodFlags{date: "2023-03-15", month: 7}, want: tally.Period{Month: 6, Year: 1}},
		{name: "month and year", flags: periodFlags{date: "2025-01-01", month: 12, year: 2022}, want: tally.Period{Month: 11, Year: 0}},
		{name: "month out of range", flags: periodFlags{date: "2023-03-15", month: 13}, wantErr: true},
		{name: "before epoch", flags: periodFlags{date: "2021-06-01"}, wantErr: true},
		{name: "bad date", flags: periodFlags{date: "June"}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.flags.period()
			if (err != nil) != tc.wantErr {
				t.Fatalf("period() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("period() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
