// Package helpers provides fixtures and db seeding for integration tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/vheckthor/bank-api/internal/accountrepo"
	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/internal/transactionrepo"
	"github.com/vheckthor/bank-api/internal/userrepo"
	"github.com/vheckthor/bank-api/pkg/accountnumpkg"
	"github.com/vheckthor/bank-api/pkg/dbpkg"
	"github.com/vheckthor/bank-api/pkg/passpkg"
	"github.com/vheckthor/bank-api/pkg/randompkg"
)

// RandomAccount returns an account fixture owned by the given user.
func RandomAccount(owner string) domain.Account {
	return domain.Account{
		ID:        randompkg.IntBetween(1, 1000),
		Owner:     owner,
		Type:      domain.AccountTypeSavings,
		Number:    accountnumpkg.Generate(domain.AccountTypeSavings),
		Balance:   randompkg.MoneyAmountBetween(1000, 10_000),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomTransactionParams returns random input data for a ledger record.
func RandomTransactionParams(accountID int32) domain.CreateTransactionParams {
	return domain.CreateTransactionParams{
		AccountID:      accountID,
		Kind:           domain.KindCredit,
		Amount:         randompkg.MoneyAmountBetween(10, 1000),
		Description:    randompkg.String(20),
		OriginIP:       randompkg.IP(),
		OriginLocation: domain.LocationUnknown,
	}
}

// SeedUser creates a random user in the given database.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash(password) returned error: %v", err)
	}

	arg := domain.CreateUserParams{
		Username:       randompkg.Owner(),
		HashedPassword: hashedPassword,
		FullName:       randompkg.Owner(),
		Email:          randompkg.Email(),
	}

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user
}

// SeedAccountWith creates an account with the given owner and balance.
func SeedAccountWith(t *testing.T, db dbpkg.SQLInterface, owner, balance string) domain.Account {
	t.Helper()

	number := accountnumpkg.Generate(domain.AccountTypeSavings)

	account, err := accountrepo.NewRepoPGS(db).Create(
		context.Background(), owner, domain.AccountTypeSavings, number, balance)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %v, ...) returned error: %v", owner, err)
	}

	return account
}

// SeedAccount creates an account with a random balance for the given owner.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, owner string) domain.Account {
	t.Helper()

	return SeedAccountWith(t, db, owner, randompkg.MoneyAmountBetween(1000, 10_000))
}

// SeedTransaction creates a ledger record for the given account.
func SeedTransaction(t *testing.T, db dbpkg.SQLInterface, arg domain.CreateTransactionParams) domain.Transaction {
	t.Helper()

	transaction, err := transactionrepo.NewTxRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("transactionRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return transaction
}

// SeedTransactions creates n credit ledger records with the given description.
func SeedTransactions(t *testing.T, db dbpkg.SQLInterface, accountID int32, n int, description string) []domain.Transaction {
	t.Helper()

	transactions := make([]domain.Transaction, 0, n)

	for i := 0; i < n; i++ {
		arg := RandomTransactionParams(accountID)
		arg.Description = description

		transactions = append(transactions, SeedTransaction(t, db, arg))
	}

	return transactions
}
