package tally

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/tally/date"
	"github.com/shopspring/decimal"
)

func TestParseRef(t *testing.T) {
	testCases := []struct {
		name    string
		kind    Kind
		ref     string
		want    Ref
		wantErr bool
	}{
		{name: "income", kind: KindIncome, ref: "test 2", want: Income{Account: "test 2"}},
		{name: "expense", kind: KindExpense, ref: "test1", want: Expense{Account: "test1"}},
		{name: "transfer", kind: KindTransfer, ref: "Bank to Cash", want: Transfer{From: "Bank", To: "Cash"}},
		{name: "transfer with spaces", kind: KindTransfer, ref: "test 2 to test1", want: Transfer{From: "test 2", To: "test1"}},
		{name: "transfer single account", kind: KindTransfer, ref: "Bank", wantErr: true},
		{name: "transfer three accounts", kind: KindTransfer, ref: "A to B to C", wantErr: true},
		{name: "transfer empty source", kind: KindTransfer, ref: " to Cash", wantErr: true},
		{name: "transfer to itself", kind: KindTransfer, ref: "Bank to Bank", wantErr: true},
		{name: "empty income", kind: KindIncome, ref: "", wantErr: true},
		{name: "unknown kind", kind: Kind("Refund"), ref: "Bank", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRef(tc.kind, tc.ref)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseRef(%q, %q) error = %v, wantErr %v", tc.kind, tc.ref, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseRef(%q, %q) = %#v, want %#v", tc.kind, tc.ref, got, tc.want)
			}
			if err == nil && got.Encode() != tc.ref {
				t.Errorf("Encode() = %q, want %q", got.Encode(), tc.ref)
			}
		})
	}
}

func TestTransferConservation(t *testing.T) {
	x := decimal.RequireFromString("42.17")
	changes := Transfer{From: "A", To: "B"}.Apply(x)

	if !changes["A"].Equal(x.Neg()) {
		t.Errorf("delta of A = %s, want %s", changes["A"], x.Neg())
	}
	if !changes["B"].Equal(x) {
		t.Errorf("delta of B = %s, want %s", changes["B"], x)
	}
	sum := decimal.Zero
	for _, d := range changes {
		sum = sum.Add(d)
	}
	if !sum.IsZero() {
		t.Errorf("sum of deltas = %s, want 0", sum)
	}
}

func TestTransactionRecordDecode(t *testing.T) {
	valid := TransactionRecord{ID: 7, Date: "2022-07-19", Details: "rent", AccountRef: "Bank", Amount: "650.00", Type: "Expense"}
	tx, err := valid.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := Transaction{ID: 7, Date: date.New(2022, time.July, 19), Details: "rent", Ref: Expense{Account: "Bank"}, Amount: decimal.RequireFromString("650")}
	if tx.ID != want.ID || tx.Date != want.Date || tx.Ref != want.Ref || !tx.Amount.Equal(want.Amount) {
		t.Errorf("Decode() = %+v, want %+v", tx, want)
	}

	testCases := []struct {
		name  string
		edit  func(*TransactionRecord)
		field string
	}{
		{name: "bad amount", edit: func(r *TransactionRecord) { r.Amount = "1O0" }, field: "amount"},
		{name: "negative amount", edit: func(r *TransactionRecord) { r.Amount = "-650.00" }, field: "amount"},
		{name: "zero amount", edit: func(r *TransactionRecord) { r.Amount = "0.00" }, field: "amount"},
		{name: "bad date", edit: func(r *TransactionRecord) { r.Date = "19-07-2022" }, field: "date"},
		{name: "bad type", edit: func(r *TransactionRecord) { r.Type = "expense" }, field: "type"},
		{name: "bad transfer", edit: func(r *TransactionRecord) { r.Type = "Transfer" }, field: "account reference"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := valid
			tc.edit(&rec)
			_, err := rec.Decode()
			var ierr *IntegrityError
			if !errors.As(err, &ierr) {
				t.Fatalf("Decode() error = %v, want *IntegrityError", err)
			}
			if ierr.ID != 7 || ierr.Field != tc.field {
				t.Errorf("IntegrityError = {ID: %d, Field: %q}, want {ID: 7, Field: %q}", ierr.ID, ierr.Field, tc.field)
			}
			if !errors.Is(err, ErrIntegrity) {
				t.Errorf("errors.Is(%v, ErrIntegrity) = false", err)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	accounts := Accounts{"Bank", "Cash"}
	day := date.New(2022, time.June, 1)
	one := decimal.NewFromInt(1)
	testCases := []struct {
		name       string
		tx         Transaction
		wantErr    bool
		wantSchema bool
	}{
		{name: "income", tx: NewIncome(day, "", "Bank", one)},
		{name: "transfer", tx: NewTransfer(day, "", "Bank", "Cash", one)},
		{name: "zero amount", tx: NewExpense(day, "", "Bank", decimal.Zero), wantErr: true},
		{name: "negative amount", tx: NewExpense(day, "", "Bank", one.Neg()), wantErr: true},
		{name: "no date", tx: NewExpense(date.Date{}, "", "Bank", one), wantErr: true},
		{name: "same account transfer", tx: NewTransfer(day, "", "Cash", "Cash", one), wantErr: true},
		{name: "unknown account", tx: NewIncome(day, "", "Wallet", one), wantErr: true, wantSchema: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate(accounts)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantSchema && !errors.Is(err, ErrSchema) {
				t.Errorf("Validate() error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestBalances(t *testing.T) {
	b := NewBalances(Accounts{"test1", "test 2"})
	if err := b.Apply(Expense{Account: "test 2"}.Apply(decimal.RequireFromString("100"))); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got, want := b.Fixed(), []string{"0.00", "-100.00"}; !equal(got, want) {
		t.Errorf("Fixed() = %q, want %q", got, want)
	}
	if err := b.Apply(Income{Account: "nope"}.Apply(decimal.NewFromInt(1))); !errors.Is(err, ErrSchema) {
		t.Errorf("Apply(unknown) error = %v, want ErrSchema", err)
	}
	if got, want := b.Fixed(), []string{"0.00", "-100.00"}; !equal(got, want) {
		t.Errorf("Fixed() after rejected Apply = %q, want %q", got, want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
