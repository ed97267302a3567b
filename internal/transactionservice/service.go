// Package transactionservice manages business logic layer of ledger transactions.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vheckthor/bank-api/internal/balance"
	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/pkg/errorspkg"
)

// Page size bounds for transaction queries.
const (
	MinPageSize = 1
	MaxPageSize = 50
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	PostTx(ctx context.Context, balanceChange string, arg domain.CreateTransactionParams) (domain.PostTransactionResult, error)
	List(ctx context.Context, accountID int32, search string, limit, offset int32) ([]domain.Transaction, error)
	Count(ctx context.Context, accountID int32, search string) (int32, error)
}

// AccountGetter provides the owner scoped account lookup.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type AccountGetter interface {
	GetByNumber(ctx context.Context, number, owner string) (domain.Account, error)
}

// Locator resolves a best-effort location for a client IP.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Locator interface {
	Resolve(ctx context.Context, ip string) string
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo      Repo
	accounts  AccountGetter
	locator   Locator
	maxAmount decimal.Decimal
}

// New returns transaction service struct to manage transaction bussines logic.
func New(tr Repo, ag AccountGetter, loc Locator, maxAmount decimal.Decimal) *Service {
	return &Service{
		repo:      tr,
		accounts:  ag,
		locator:   loc,
		maxAmount: maxAmount,
	}
}

// PostParams is the input data to post a transaction against an account.
type PostParams struct {
	Owner         string
	AccountNumber string
	Kind          domain.TransactionKind
	Amount        string
	Description   string
	ClientIP      string
}

// Post validates and applies a credit or debit against the owner's account.
//
// The origin lookup is best-effort and never aborts the transaction.
// The balance write and the ledger append commit as one unit.
func (s *Service) Post(ctx context.Context, arg PostParams) (domain.PostTransactionResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PostTransactionResult

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	account, err := s.accounts.GetByNumber(ctx, arg.AccountNumber, arg.Owner)
	if err != nil {
		return result, err
	}

	currentBalance, err := decimal.NewFromString(account.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	// Early check for a client friendly error; the persist step
	// revalidates under the row lock.
	if _, err := balance.Apply(currentBalance, amount, arg.Kind, s.maxAmount); err != nil {
		return result, err
	}

	location := s.locator.Resolve(ctx, arg.ClientIP)

	balanceChange := amount
	if arg.Kind == domain.KindDebit {
		balanceChange = amount.Neg()
	}

	result, err = s.repo.PostTx(ctx, balanceChange.String(), domain.CreateTransactionParams{
		AccountID:      account.ID,
		Kind:           arg.Kind,
		Amount:         amount.String(),
		Description:    arg.Description,
		OriginIP:       arg.ClientIP,
		OriginLocation: location,
	})
	if err != nil {
		return result, err
	}

	return result, nil
}

// List returns one page of the account's transactions whose description
// contains the search term, with navigation metadata.
//
// Pages are 1-indexed; the next page saturates at the last page.
func (s *Service) List(ctx context.Context, owner, accountNumber, search string, pageNumber, pageSize int32) (domain.TransactionPage, error) {
	var page domain.TransactionPage

	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return page, domain.ErrInvalidPageSize
	}

	if pageNumber < 1 {
		pageNumber = 1
	}

	account, err := s.accounts.GetByNumber(ctx, accountNumber, owner)
	if err != nil {
		return page, err
	}

	totalCount, err := s.repo.Count(ctx, account.ID, search)
	if err != nil {
		return page, err
	}

	offset := (pageNumber - 1) * pageSize

	transactions, err := s.repo.List(ctx, account.ID, search, pageSize, offset)
	if err != nil {
		return page, err
	}

	totalPages := (totalCount + pageSize - 1) / pageSize

	nextPage := pageNumber
	if pageNumber < totalPages {
		nextPage = pageNumber + 1
	}

	page = domain.TransactionPage{
		TotalCount:   totalCount,
		TotalPages:   totalPages,
		CurrentPage:  pageNumber,
		PageSize:     pageSize,
		NextPage:     nextPage,
		Transactions: transactions,
	}

	return page, nil
}
