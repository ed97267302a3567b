package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates a non-positive or out of range transaction amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidTransactionKind indicates an unsupported transaction kind.
	ErrInvalidTransactionKind = errors.New("transaction kind must be credit or debit")
	// ErrInvalidPageSize indicates a page size outside the allowed range.
	ErrInvalidPageSize = errors.New("page size must be between 1 and 50")
)

// TransactionKind is the direction of a balance change.
type TransactionKind string

// Supported transaction kinds.
const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

// ParseTransactionKind validates and converts a raw kind string.
func ParseTransactionKind(kind string) (TransactionKind, error) {
	switch TransactionKind(kind) {
	case KindCredit:
		return KindCredit, nil
	case KindDebit:
		return KindDebit, nil
	}

	return "", ErrInvalidTransactionKind
}

// LocationUnknown is the fallback origin location when resolution fails.
const LocationUnknown = "UNKNOWN"

// Transaction holds a single immutable ledger record for an account.
type Transaction struct {
	ID             int64           `json:"id"`
	AccountID      int32           `json:"account_id"`
	Kind           TransactionKind `json:"kind"`
	Amount         string          `json:"amount"` // always positive, direction is in Kind
	Description    string          `json:"description"`
	OriginIP       string          `json:"origin_ip"`
	OriginLocation string          `json:"origin_location"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateTransactionParams is the input data to append a ledger record.
type CreateTransactionParams struct {
	AccountID      int32
	Kind           TransactionKind
	Amount         string
	Description    string
	OriginIP       string
	OriginLocation string
}

// TransactionPage bundles one page of matching ledger records
// with total count and navigation metadata.
type TransactionPage struct {
	TotalCount   int32
	TotalPages   int32
	CurrentPage  int32
	PageSize     int32
	NextPage     int32
	Transactions []Transaction
}

// PostTransactionResult is the outcome of posting a transaction:
// the stored ledger record and the account balance after the mutation.
type PostTransactionResult struct {
	Transaction Transaction
	Balance     string
}
