// Package transactionrepo manages repository layer of ledger transactions.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/vheckthor/bank-api/internal/accountrepo"
	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/pkg/dbpkg"
	"github.com/vheckthor/bank-api/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS bound to an existing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (account_id, kind, amount, description, origin_ip, origin_location)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING id, account_id, kind, amount, description, origin_ip, origin_location, created_at
`

// Create appends an immutable ledger record and then returns it
// with the server assigned id and timestamp.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.AccountID,
		arg.Kind,
		arg.Amount,
		arg.Description,
		arg.OriginIP,
		arg.OriginLocation,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.AccountID,
		&t.Kind,
		&t.Amount,
		&t.Description,
		&t.OriginIP,
		&t.OriginLocation,
		&t.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return t, domain.ErrInvalidAmount
			case "transactions_kind_check":
				return t, domain.ErrInvalidTransactionKind
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const countQuery = `
SELECT count(*) FROM transactions
WHERE account_id = $1 AND description LIKE '%' || $2 || '%'
`

// Count returns the number of the account's transactions whose
// description contains the search term.
func (r *RepoPGS) Count(ctx context.Context, accountID int32, search string) (int32, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, countQuery, accountID, search)

	var count int32
	if err := row.Scan(&count); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}

const listQuery = `
SELECT id, account_id, kind, amount, description, origin_ip, origin_location, created_at
FROM transactions
WHERE account_id = $1 AND description LIKE '%' || $2 || '%'
ORDER BY created_at, id
LIMIT $3 OFFSET $4
`

// List returns the account's transactions whose description contains the
// search term, in insertion order. An empty term matches all.
func (r *RepoPGS) List(ctx context.Context, accountID int32, search string, limit, offset int32) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, accountID, search, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Kind,
			&t.Amount,
			&t.Description,
			&t.OriginIP,
			&t.OriginLocation,
			&t.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// PostTx applies a signed balance change and appends the ledger record
// within a single db transaction.
//
// Either both writes commit or neither does; concurrent mutations against
// the same account serialize on the balance row update.
func (r *RepoPGS) PostTx(ctx context.Context, balanceChange string, arg domain.CreateTransactionParams) (domain.PostTransactionResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PostTransactionResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	transactionRepo := NewTxRepoPGS(tx)

	account, err := accountRepo.AddBalance(ctx, balanceChange, arg.AccountID)
	if err != nil {
		return result, err
	}

	result.Balance = account.Balance

	result.Transaction, err = transactionRepo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}
