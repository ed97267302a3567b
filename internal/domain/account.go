package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerNotFound indicates that the owner for the account is not found.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrAccountNumberTaken indicates a collision on the generated account number.
	ErrAccountNumberTaken = errors.New("account number already exists")
	// ErrInvalidAccountType indicates an unsupported account type.
	ErrInvalidAccountType = errors.New("account type must be savings or current")
)

// Supported account types.
const (
	AccountTypeSavings = "savings"
	AccountTypeCurrent = "current"
)

// IsSupportedAccountType returns true if the account type is supported.
func IsSupportedAccountType(accountType string) bool {
	return accountType == AccountTypeSavings || accountType == AccountTypeCurrent
}

// Account holds balance data for a single user account.
//
// Number is the externally visible display identifier; ID is the storage key.
// Balance changes only through the transaction engine.
type Account struct {
	ID        int32     `json:"id"`
	Owner     string    `json:"owner"`
	Type      string    `json:"type"`
	Number    string    `json:"number"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountDetail is an account together with display data
// gathered from related entities.
type AccountDetail struct {
	Account           Account `json:"account"`
	OwnerFullName     string  `json:"owner_full_name"`
	TotalTransactions int32   `json:"total_transactions"`
}
