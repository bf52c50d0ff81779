// Package renderer formats ledger reports as markdown documents.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/tally"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// money formats a stored two-decimal value in currency, or returns it
// unchanged if it is not a decimal.
func money(v, currency string) string {
	m, err := tally.ParseMoney(v, currency)
	if err != nil {
		return v
	}
	return m.String()
}

func signed(v, currency string) string {
	m, err := tally.ParseMoney(v, currency)
	if err != nil {
		return v
	}
	return m.SignedString()
}

func alignments(left, right int) []md.TableAlignment {
	a := make([]md.TableAlignment, 0, left+right)
	for range left {
		a = append(a, md.AlignLeft)
	}
	for range right {
		a = append(a, md.AlignRight)
	}
	return a
}

// Month renders the replay of a month: every transaction followed by the
// balance of each account right after it.
func Month(p tally.Period, m *tally.MonthReplay, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Transactions for %v", p))

	if m.Len() == 0 {
		doc.PlainText("No transaction this month.")
		return doc.String()
	}

	header := []string{"Id", "Date", "Details", "Account", "Amount", "Type"}
	header = append(header, m.Accounts...)
	table := md.TableSet{
		Alignment: append([]md.TableAlignment{
			md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft,
		}, alignments(0, len(m.Accounts))...),
		Header: header,
		Rows:   [][]string{},
	}
	for i, row := range m.Rows {
		cells := []string{fmt.Sprint(m.IDs[i]), row.Date, row.Details, row.Account, money(row.Amount, currency), row.Type}
		for _, v := range m.Balances[i] {
			cells = append(cells, money(v, currency))
		}
		table.Rows = append(table.Rows, cells)
	}
	doc.Table(table)
	return doc.String()
}

// Changes renders the recorded per-account deltas of a month. A month
// without change is rendered as the placeholder row, a label followed by one
// value per account.
func Changes(p tally.Period, accounts tally.Accounts, rows [][]string, placeholder []string, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Changes for %v", p))

	table := md.TableSet{
		Alignment: alignments(1, len(accounts)),
		Header:    append([]string{"#"}, accounts...),
		Rows:      [][]string{},
	}
	if len(rows) == 0 && len(placeholder) > 0 {
		cells := []string{placeholder[0]}
		for _, v := range placeholder[1:] {
			cells = append(cells, signed(v, currency))
		}
		table.Rows = append(table.Rows, cells)
	}
	for i, row := range rows {
		cells := []string{fmt.Sprint(i + 1)}
		for _, v := range row {
			cells = append(cells, signed(v, currency))
		}
		table.Rows = append(table.Rows, cells)
	}
	doc.Table(table)
	return doc.String()
}

// Balances renders the latest balance of every account and their total.
func Balances(accounts tally.Accounts, values []string, currency string) (string, error) {
	if len(values) != len(accounts) {
		return "", fmt.Errorf("%w: %d balances for %d accounts", tally.ErrSchema, len(values), len(accounts))
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Balances")

	table := md.TableSet{
		Alignment: alignments(1, 1),
		Header:    []string{"Account", "Balance"},
		Rows:      [][]string{},
	}
	total := tally.M(decimal.Zero, currency)
	for i, a := range accounts {
		m, err := tally.ParseMoney(values[i], currency)
		if err != nil {
			return "", fmt.Errorf("balance of %q: %w", a, err)
		}
		total = total.Add(m)
		table.Rows = append(table.Rows, []string{a, m.String()})
	}
	table.Rows = append(table.Rows, []string{"**Total**", "**" + total.String() + "**"})
	doc.Table(table)
	return doc.String(), nil
}

// Accounts renders the ordered list of accounts.
func Accounts(accounts tally.Accounts) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Accounts")
	if len(accounts) == 0 {
		doc.PlainText("No account defined.")
		return doc.String()
	}
	doc.OrderedList(accounts...)
	return doc.String()
}
