package tally

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

// Kind is the persisted transaction type.
type Kind string

// Transaction kinds, as stored in the type column.
const (
	KindIncome   Kind = "Income"
	KindExpense  Kind = "Expense"
	KindTransfer Kind = "Transfer"
)

// ParseKind parses a stored transaction type.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindIncome, KindExpense, KindTransfer:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// TransferSeparator joins the source and destination accounts of a persisted transfer reference.
const TransferSeparator = " to "

// Ref is the account reference of a transaction: Income, Expense or Transfer.
type Ref interface {
	Kind() Kind
	// Encode returns the persisted account reference.
	Encode() string
	// Apply returns the balance change of every account touched by amount.
	Apply(amount decimal.Decimal) map[string]decimal.Decimal
}

// Income credits Account.
type Income struct{ Account string }

// Expense debits Account.
type Expense struct{ Account string }

// Transfer moves money from one account to another.
type Transfer struct{ From, To string }

func (r Income) Kind() Kind       { return KindIncome }
func (r Income) Encode() string   { return r.Account }
func (r Expense) Kind() Kind      { return KindExpense }
func (r Expense) Encode() string  { return r.Account }
func (r Transfer) Kind() Kind     { return KindTransfer }
func (r Transfer) Encode() string { return r.From + TransferSeparator + r.To }

func (r Income) Apply(amount decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{r.Account: amount}
}

func (r Expense) Apply(amount decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{r.Account: amount.Neg()}
}

func (r Transfer) Apply(amount decimal.Decimal) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{r.From: amount.Neg(), r.To: amount}
}

// ParseRef decodes a persisted account reference of the given kind.
//
// A transfer reference must split on TransferSeparator into exactly two
// distinct, non-empty account names.
func ParseRef(kind Kind, ref string) (Ref, error) {
	switch kind {
	case KindIncome:
		if ref == "" {
			return nil, errors.New("empty account")
		}
		return Income{Account: ref}, nil
	case KindExpense:
		if ref == "" {
			return nil, errors.New("empty account")
		}
		return Expense{Account: ref}, nil
	case KindTransfer:
		parts := strings.Split(ref, TransferSeparator)
		if len(parts) != 2 {
			return nil, fmt.Errorf("transfer reference must name exactly two accounts, got %d part(s)", len(parts))
		}
		if parts[0] == "" || parts[1] == "" {
			return nil, errors.New("transfer reference has an empty account")
		}
		if parts[0] == parts[1] {
			return nil, fmt.Errorf("transfer from %q to itself", parts[0])
		}
		return Transfer{From: parts[0], To: parts[1]}, nil
	default:
		return nil, fmt.Errorf("unknown transaction type %q", kind)
	}
}

// accountsOf returns the accounts referenced by r.
func accountsOf(r Ref) []string {
	switch v := r.(type) {
	case Income:
		return []string{v.Account}
	case Expense:
		return []string{v.Account}
	case Transfer:
		return []string{v.From, v.To}
	default:
		return nil
	}
}

// Transaction is a decoded ledger transaction.
type Transaction struct {
	ID      int
	Date    date.Date
	Details string
	Ref     Ref
	Amount  decimal.Decimal
}

// NewIncome creates an Income transaction.
func NewIncome(day date.Date, details, account string, amount decimal.Decimal) Transaction {
	return Transaction{Date: day, Details: details, Ref: Income{Account: account}, Amount: amount}
}

// NewExpense creates an Expense transaction.
func NewExpense(day date.Date, details, account string, amount decimal.Decimal) Transaction {
	return Transaction{Date: day, Details: details, Ref: Expense{Account: account}, Amount: amount}
}

// NewTransfer creates a Transfer transaction.
func NewTransfer(day date.Date, details, from, to string, amount decimal.Decimal) Transaction {
	return Transaction{Date: day, Details: details, Ref: Transfer{From: from, To: to}, Amount: amount}
}

// Validate checks tx against the known accounts before it is recorded.
func (tx Transaction) Validate(accounts Accounts) error {
	if tx.Date.IsZero() {
		return errors.New("transaction date is missing")
	}
	if tx.Ref == nil {
		return errors.New("transaction account is missing")
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", tx.Amount)
	}
	if t, ok := tx.Ref.(Transfer); ok && t.From == t.To {
		return fmt.Errorf("transfer from %q to itself", t.From)
	}
	for _, name := range accountsOf(tx.Ref) {
		if !accounts.Contains(name) {
			return fmt.Errorf("%w: unknown account %q", ErrSchema, name)
		}
	}
	return nil
}

// Record returns the persisted form of tx.
func (tx Transaction) Record() TransactionRecord {
	return TransactionRecord{
		ID:         tx.ID,
		Date:       tx.Date.String(),
		Details:    tx.Details,
		AccountRef: tx.Ref.Encode(),
		Amount:     tx.Amount.StringFixed(2),
		Type:       string(tx.Ref.Kind()),
	}
}

// TransactionRecord is a transaction as persisted: every field is kept as text.
type TransactionRecord struct {
	ID         int
	Date       string
	Details    string
	AccountRef string
	Amount     string
	Type       string
}

// Decode parses and validates a persisted transaction.
// Any malformed field is reported as an *IntegrityError naming the field.
func (r TransactionRecord) Decode() (Transaction, error) {
	day, err := date.Parse(r.Date)
	if err != nil {
		return Transaction{}, integrity(r.ID, "date", r.Date, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return Transaction{}, integrity(r.ID, "amount", r.Amount, err)
	}
	if !amount.IsPositive() {
		return Transaction{}, integrity(r.ID, "amount", r.Amount, errors.New("amount must be positive"))
	}
	kind, err := ParseKind(r.Type)
	if err != nil {
		return Transaction{}, integrity(r.ID, "type", r.Type, err)
	}
	ref, err := ParseRef(kind, r.AccountRef)
	if err != nil {
		return Transaction{}, integrity(r.ID, "account reference", r.AccountRef, err)
	}
	return Transaction{ID: r.ID, Date: day, Details: r.Details, Ref: ref, Amount: amount}, nil
}
