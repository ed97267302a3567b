// Package balance computes account balance mutations.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/vheckthor/bank-api/internal/domain"
)

// Apply derives a new balance from the current balance and a transaction.
//
// The amount must be strictly positive and strictly below max. A debit
// larger than the current balance fails with ErrInsufficientBalance;
// a debit of the full balance is legal and leaves zero.
func Apply(current, amount decimal.Decimal, kind domain.TransactionKind, max decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThanOrEqual(max) {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	switch kind {
	case domain.KindCredit:
		return current.Add(amount), nil
	case domain.KindDebit:
		if amount.GreaterThan(current) {
			return decimal.Decimal{}, domain.ErrInsufficientBalance
		}

		return current.Sub(amount), nil
	}

	return decimal.Decimal{}, domain.ErrInvalidTransactionKind
}
