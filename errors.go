package tally

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectivity is returned when the persistence layer cannot be reached or rejects a query.
	ErrConnectivity = errors.New("storage unavailable")

	// ErrNotFound is returned when a "latest" query finds an empty table.
	ErrNotFound = errors.New("not found")

	// ErrSchema is returned when the account set is empty or does not match the
	// accounts referenced by the ledger.
	ErrSchema = errors.New("schema error")

	// ErrIntegrity is matched by every *IntegrityError.
	ErrIntegrity = errors.New("ledger integrity error")

	// ErrInvalidPeriod is returned for a month index outside 0..11 or a negative year offset.
	ErrInvalidPeriod = errors.New("invalid period")
)

// IntegrityError reports persisted data that cannot be trusted: an amount that is
// not a decimal, an unknown transaction type, a malformed transfer reference...
//
// ID is the id_num of the offending transaction or snapshot row.
type IntegrityError struct {
	ID    int
	Field string
	Value string
	Err   error
}

func (e *IntegrityError) Error() string {
	msg := fmt.Sprintf("id_num %d: invalid %s %q", e.ID, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIntegrity) true for any IntegrityError.
func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

func integrity(id int, field, value string, err error) error {
	return &IntegrityError{ID: id, Field: field, Value: value, Err: err}
}
