//go:build integration

package transactionrepo_test

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"github.com/vheckthor/bank-api/internal/accountrepo"
	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/internal/integrationtest"
	"github.com/vheckthor/bank-api/internal/integrationtest/helpers"
	"github.com/vheckthor/bank-api/internal/transactionrepo"
	"github.com/vheckthor/bank-api/pkg/configpkg"
	"github.com/vheckthor/bank-api/pkg/randompkg"
)

var (
	dbDriver string
	dbSource string
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	testCases := []struct {
		name    string
		arg     func(tx *sql.Tx) domain.CreateTransactionParams
		wantErr error
	}{
		{
			name: "OK",
			arg: func(tx *sql.Tx) domain.CreateTransactionParams {
				user := helpers.SeedUser(t, tx)
				account := helpers.SeedAccount(t, tx, user.Username)

				return domain.CreateTransactionParams{
					AccountID:      account.ID,
					Kind:           domain.KindDebit,
					Amount:         "250",
					Description:    "atm withdrawal",
					OriginIP:       randompkg.IP(),
					OriginLocation: "Lagos, Nigeria",
				}
			},
		},
		{
			name: "ErrAccountNotFound",
			arg: func(tx *sql.Tx) domain.CreateTransactionParams {
				arg := helpers.RandomTransactionParams(0)
				return arg
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "ErrInvalidAmount",
			arg: func(tx *sql.Tx) domain.CreateTransactionParams {
				user := helpers.SeedUser(t, tx)
				account := helpers.SeedAccount(t, tx, user.Username)

				arg := helpers.RandomTransactionParams(account.ID)
				arg.Amount = "0"

				return arg
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "ErrInvalidTransactionKind",
			arg: func(tx *sql.Tx) domain.CreateTransactionParams {
				user := helpers.SeedUser(t, tx)
				account := helpers.SeedAccount(t, tx, user.Username)

				arg := helpers.RandomTransactionParams(account.ID)
				arg.Kind = "withdrawal"

				return arg
			},
			wantErr: domain.ErrInvalidTransactionKind,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tx := integrationtest.SetupTX(t, dbDriver, dbSource)

			repo := transactionrepo.NewTxRepoPGS(tx)

			arg := tc.arg(tx)

			got, err := repo.Create(context.Background(), arg)
			if err == tc.wantErr {
				return
			}
			if err != nil {
				t.Fatalf("repo.Create(context.Background(), %+v) returned error: %v", arg, err)
			}

			want := domain.Transaction{
				AccountID:      arg.AccountID,
				Kind:           arg.Kind,
				Amount:         arg.Amount,
				Description:    arg.Description,
				OriginIP:       arg.OriginIP,
				OriginLocation: arg.OriginLocation,
			}

			ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID", "CreatedAt")
			if diff := cmp.Diff(want, got, ignoreFields); diff != "" {
				t.Errorf("repo.Create(context.Background(), %+v) returned unexpected difference (-want +got):\n%s",
					arg, diff)
			}

			if got.ID == 0 {
				t.Errorf("got.ID = 0, want server assigned id")
			}
			if got.CreatedAt.IsZero() {
				t.Errorf("got.CreatedAt is zero, want server assigned timestamp")
			}
		})
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, tx)
	account := helpers.SeedAccount(t, tx, user.Username)

	helpers.SeedTransactions(t, tx, account.ID, 3, "groceries at the market")
	helpers.SeedTransactions(t, tx, account.ID, 2, "monthly rent")

	repo := transactionrepo.NewTxRepoPGS(tx)

	testCases := []struct {
		name   string
		search string
		want   int32
	}{
		{name: "All", search: "", want: 5},
		{name: "Filtered", search: "groceries", want: 3},
		{name: "Substring", search: "rent", want: 2},
		{name: "NoMatches", search: "salary", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Count(context.Background(), account.ID, tc.search)
			if err != nil {
				t.Fatalf("repo.Count(context.Background(), %v, %q) returned error: %v",
					account.ID, tc.search, err)
			}

			if got != tc.want {
				t.Errorf("repo.Count(context.Background(), %v, %q) = %v, want %v",
					account.ID, tc.search, got, tc.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, tx)
	account := helpers.SeedAccount(t, tx, user.Username)
	other := helpers.SeedAccount(t, tx, user.Username)

	seeded := helpers.SeedTransactions(t, tx, account.ID, 5, "coffee")
	helpers.SeedTransactions(t, tx, other.ID, 2, "coffee")

	repo := transactionrepo.NewTxRepoPGS(tx)

	testCases := []struct {
		name   string
		search string
		limit  int32
		offset int32
		want   []domain.Transaction
	}{
		{
			name:  "FirstPage",
			limit: 2,
			want:  seeded[:2],
		},
		{
			name:   "SecondPage",
			limit:  2,
			offset: 2,
			want:   seeded[2:4],
		},
		{
			name:   "LastPartialPage",
			limit:  2,
			offset: 4,
			want:   seeded[4:],
		},
		{
			name:   "Filtered",
			search: "coffee",
			limit:  50,
			want:   seeded,
		},
		{
			name:   "NoMatches",
			search: "salary",
			limit:  50,
			want:   []domain.Transaction{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.List(context.Background(), account.ID, tc.search, tc.limit, tc.offset)
			if err != nil {
				t.Fatalf("repo.List(context.Background(), %v, %q, %v, %v) returned error: %v",
					account.ID, tc.search, tc.limit, tc.offset, err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("repo.List(context.Background(), %v, %q, %v, %v) returned unexpected difference (-want +got):\n%s",
					account.ID, tc.search, tc.limit, tc.offset, diff)
			}
		})
	}
}

func TestPostTx(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, db)
	account := helpers.SeedAccountWith(t, db, user.Username, "1000")

	repo := transactionrepo.NewRepoPGS(db)

	// run n concurrent credit postings against the same account
	n := 10
	amount := "10"

	errs := make(chan error)
	results := make(chan domain.PostTransactionResult)

	arg := domain.CreateTransactionParams{
		AccountID:      account.ID,
		Kind:           domain.KindCredit,
		Amount:         amount,
		Description:    "salary",
		OriginIP:       randompkg.IP(),
		OriginLocation: domain.LocationUnknown,
	}

	for i := 0; i < n; i++ {
		go func() {
			result, err := repo.PostTx(context.Background(), amount, arg)

			errs <- err
			results <- result
		}()
	}

	// check results

	existed := make(map[int]bool)

	wantTransaction := domain.Transaction{
		AccountID:      account.ID,
		Kind:           domain.KindCredit,
		Amount:         amount,
		Description:    arg.Description,
		OriginIP:       arg.OriginIP,
		OriginLocation: arg.OriginLocation,
	}

	balanceBefore, err := decimal.NewFromString(account.Balance)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%v) returned error: %v", account.Balance, err)
	}

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%v) returned error: %v", amount, err)
	}

	for i := 0; i < n; i++ {
		err := <-errs
		if err != nil {
			t.Fatalf("repo.PostTx(context.Background(), %v, %+v) returned error: %v", amount, arg, err)
		}

		got := <-results

		ignoreFields := cmpopts.IgnoreFields(domain.Transaction{}, "ID", "CreatedAt")
		if diff := cmp.Diff(wantTransaction, got.Transaction, ignoreFields); diff != "" {
			t.Errorf("repo.PostTx(context.Background(), %v, %+v) returned unexpected difference (-want +got):\n%s",
				amount, arg, diff)
		}

		balanceAfter, err := decimal.NewFromString(got.Balance)
		if err != nil {
			t.Fatalf("decimal.NewFromString(%v) returned error: %v", got.Balance, err)
		}

		k := int(balanceAfter.Sub(balanceBefore).Div(amountDecimal).IntPart())
		if k < 1 || k > n {
			t.Fatalf("k = %v, want k >= 1 && k <= n", k)
		}

		if existed[k] {
			t.Fatalf("k = %v already exists, want k to be unique", k)
		}

		existed[k] = true
	}

	// check the final balance and the ledger
	updatedAccount, err := accountrepo.NewRepoPGS(db).GetByNumber(
		context.Background(), account.Number, user.Username)
	if err != nil {
		t.Fatalf("accountRepo.GetByNumber(context.Background(), %v, %v) returned error: %v",
			account.Number, user.Username, err)
	}

	wantBalance := balanceBefore.Add(amountDecimal.Mul(decimal.NewFromInt(int64(n))))

	gotBalance, err := decimal.NewFromString(updatedAccount.Balance)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%v) returned error: %v", updatedAccount.Balance, err)
	}

	if !gotBalance.Equal(wantBalance) {
		t.Errorf("updatedAccount.Balance = %v, want %v", gotBalance, wantBalance)
	}

	count, err := repo.Count(context.Background(), account.ID, "")
	if err != nil {
		t.Fatalf("repo.Count(context.Background(), %v, %q) returned error: %v", account.ID, "", err)
	}

	if count != int32(n) {
		t.Errorf("repo.Count(context.Background(), %v, %q) = %v, want %v", account.ID, "", count, n)
	}
}

func TestPostTxInsufficientBalance(t *testing.T) {
	db := integrationtest.SetupDB(t, dbDriver, dbSource)

	user := helpers.SeedUser(t, db)
	account := helpers.SeedAccountWith(t, db, user.Username, "100")

	repo := transactionrepo.NewRepoPGS(db)

	arg := domain.CreateTransactionParams{
		AccountID:      account.ID,
		Kind:           domain.KindDebit,
		Amount:         "250",
		Description:    "overdraw attempt",
		OriginIP:       randompkg.IP(),
		OriginLocation: domain.LocationUnknown,
	}

	_, err := repo.PostTx(context.Background(), "-250", arg)
	if err != domain.ErrInsufficientBalance {
		t.Fatalf("repo.PostTx(context.Background(), -250, %+v) returned %v, want %v",
			arg, err, domain.ErrInsufficientBalance)
	}

	// neither the balance change nor the ledger record must persist
	updatedAccount, err := accountrepo.NewRepoPGS(db).GetByNumber(
		context.Background(), account.Number, user.Username)
	if err != nil {
		t.Fatalf("accountRepo.GetByNumber(context.Background(), %v, %v) returned error: %v",
			account.Number, user.Username, err)
	}

	if updatedAccount.Balance != account.Balance {
		t.Errorf("updatedAccount.Balance = %v, want %v", updatedAccount.Balance, account.Balance)
	}

	count, err := repo.Count(context.Background(), account.ID, "")
	if err != nil {
		t.Fatalf("repo.Count(context.Background(), %v, %q) returned error: %v", account.ID, "", err)
	}

	if count != 0 {
		t.Errorf("repo.Count(context.Background(), %v, %q) = %v, want 0", account.ID, "", count)
	}
}
