// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/pkg/accountnumpkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, owner, accountType, number, balance string) (domain.Account, error)
	GetByNumber(ctx context.Context, number, owner string) (domain.Account, error)
	List(ctx context.Context, owner string, limit, offset int32) ([]domain.Account, error)
	Delete(ctx context.Context, number, owner string) error
}

// UserGetter provides the user lookup needed for account detail data.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type UserGetter interface {
	Get(ctx context.Context, username string) (domain.UserWithoutPassword, error)
}

// TransactionCounter provides the ledger count needed for account detail data.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type TransactionCounter interface {
	Count(ctx context.Context, accountID int32, search string) (int32, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo         Repo
	users        UserGetter
	transactions TransactionCounter
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, ug UserGetter, tc TransactionCounter) *Service {
	return &Service{
		repo:         ar,
		users:        ug,
		transactions: tc,
	}
}

// Create opens an account of the given type for the owner with zero balance
// and a freshly generated account number.
func (s *Service) Create(ctx context.Context, owner, accountType string) (domain.Account, error) {
	if !domain.IsSupportedAccountType(accountType) {
		return domain.Account{}, domain.ErrInvalidAccountType
	}

	number := accountnumpkg.Generate(accountType)

	account, err := s.repo.Create(ctx, owner, accountType, number, "0")
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns the owner's account with display data for the given account number.
func (s *Service) Get(ctx context.Context, number, owner string) (domain.AccountDetail, error) {
	var detail domain.AccountDetail

	account, err := s.repo.GetByNumber(ctx, number, owner)
	if err != nil {
		return detail, err
	}

	user, err := s.users.Get(ctx, account.Owner)
	if err != nil {
		return detail, err
	}

	count, err := s.transactions.Count(ctx, account.ID, "")
	if err != nil {
		return detail, err
	}

	detail = domain.AccountDetail{
		Account:           account,
		OwnerFullName:     user.FullName,
		TotalTransactions: count,
	}

	return detail, nil
}

// GetByNumber returns the owner's account for the given account number.
func (s *Service) GetByNumber(ctx context.Context, number, owner string) (domain.Account, error) {
	return s.repo.GetByNumber(ctx, number, owner)
}

// List returns accounts that are owned by the given user.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.List(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Delete removes the owner's account with the given number.
func (s *Service) Delete(ctx context.Context, number, owner string) error {
	return s.repo.Delete(ctx, number, owner)
}
