package balance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/pkg/randompkg"
)

var maxAmount = decimal.RequireFromString("1000000000")

func TestApply(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		current string
		amount  string
		kind    domain.TransactionKind
		want    string
		wantErr error
	}{
		{
			name:    "Credit",
			current: "10000",
			amount:  "50000",
			kind:    domain.KindCredit,
			want:    "60000",
		},
		{
			name:    "Debit",
			current: "10000",
			amount:  "3000",
			kind:    domain.KindDebit,
			want:    "7000",
		},
		{
			name:    "DebitFullBalance",
			current: "10000",
			amount:  "10000",
			kind:    domain.KindDebit,
			want:    "0",
		},
		{
			name:    "DebitMoreThanBalance",
			current: "10000",
			amount:  "12000",
			kind:    domain.KindDebit,
			wantErr: domain.ErrInsufficientBalance,
		},
		{
			name:    "ZeroAmount",
			current: "10000",
			amount:  "0",
			kind:    domain.KindCredit,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			current: "10000",
			amount:  "-100",
			kind:    domain.KindDebit,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "AmountAtMax",
			current: "10000",
			amount:  maxAmount.String(),
			kind:    domain.KindCredit,
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "FractionalDebit",
			current: "100.50",
			amount:  "0.25",
			kind:    domain.KindDebit,
			want:    "100.25",
		},
		{
			name:    "UnknownKind",
			current: "10000",
			amount:  "100",
			kind:    domain.TransactionKind("transfer"),
			wantErr: domain.ErrInvalidTransactionKind,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			current := decimal.RequireFromString(tc.current)
			amount := decimal.RequireFromString(tc.amount)

			got, err := Apply(current, amount, tc.kind, maxAmount)
			if err != tc.wantErr {
				t.Fatalf("Apply(%v, %v, %v) returned error %v, want %v",
					tc.current, tc.amount, tc.kind, err, tc.wantErr)
			}

			if tc.wantErr != nil {
				return
			}

			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("Apply(%v, %v, %v) = %v, want %v",
					tc.current, tc.amount, tc.kind, got, tc.want)
			}
		})
	}
}

func TestApplyCreditThenDebitRestoresBalance(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		current := decimal.RequireFromString(randompkg.MoneyAmountBetween(0, 100_000))
		amount := decimal.RequireFromString(randompkg.MoneyAmountBetween(1, 100_000))

		credited, err := Apply(current, amount, domain.KindCredit, maxAmount)
		if err != nil {
			t.Fatalf("Apply(%v, %v, credit) returned error: %v", current, amount, err)
		}

		debited, err := Apply(credited, amount, domain.KindDebit, maxAmount)
		if err != nil {
			t.Fatalf("Apply(%v, %v, debit) returned error: %v", credited, amount, err)
		}

		if !debited.Equal(current) {
			t.Errorf("credit then debit of %v changed balance from %v to %v", amount, current, debited)
		}
	}
}
