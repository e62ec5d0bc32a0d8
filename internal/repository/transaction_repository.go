package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/wallet-service/internal/domain"
)

// TransactionRepository defines persistence access for transactions.
// Read paths join the category color in.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListAll(ctx context.Context) ([]*domain.Transaction, error)
	ListByUser(ctx context.Context, username string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	ListByUserAndType(ctx context.Context, username, categoryType string) ([]*domain.Transaction, error)
	ListByUsernames(ctx context.Context, usernames []string) ([]*domain.Transaction, error)
	ListByUsernamesAndType(ctx context.Context, usernames []string, categoryType string) ([]*domain.Transaction, error)
	// RetypeAll moves transactions from one category type to another and
	// reports how many rows changed. Used by category rename and delete.
	RetypeAll(ctx context.Context, oldType, newType string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	// DeleteByUsername removes all of a user's transactions and reports
	// the count, surfaced when an admin deletes the account.
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository returns a Postgres-backed implementation.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

const selectJoined = `
        SELECT t.id, t.username, t.type, t.amount, t.date, c.color
        FROM transactions t JOIN categories c ON c.type = t.type`

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (id, username, type, amount)
        VALUES ($1, $2, $3, $4)
        RETURNING date`

	return r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.Username,
		tx.Type,
		tx.Amount,
	).Scan(&tx.Date)
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := selectJoined + ` WHERE t.id=$1`

	var tx domain.Transaction
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.Username,
		&tx.Type,
		&tx.Amount,
		&tx.Date,
		&tx.Color,
	); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	return r.list(ctx, selectJoined+` ORDER BY t.date`)
}

func (r *transactionRepository) ListByUser(ctx context.Context, username string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	conditions := []string{"t.username=$1"}
	args := []any{username}

	appendCond := func(expr string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}
	if filter.From != nil {
		appendCond("t.date >= $%d", *filter.From)
	}
	if filter.UpTo != nil {
		appendCond("t.date <= $%d", *filter.UpTo)
	}
	if filter.MinAmt != nil {
		appendCond("t.amount >= $%d", *filter.MinAmt)
	}
	if filter.MaxAmt != nil {
		appendCond("t.amount <= $%d", *filter.MaxAmt)
	}

	query := selectJoined + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY t.date`
	return r.list(ctx, query, args...)
}

func (r *transactionRepository) ListByUserAndType(ctx context.Context, username, categoryType string) ([]*domain.Transaction, error) {
	return r.list(ctx, selectJoined+` WHERE t.username=$1 AND t.type=$2 ORDER BY t.date`, username, categoryType)
}

func (r *transactionRepository) ListByUsernames(ctx context.Context, usernames []string) ([]*domain.Transaction, error) {
	return r.list(ctx, selectJoined+` WHERE t.username = ANY($1) ORDER BY t.date`, usernames)
}

func (r *transactionRepository) ListByUsernamesAndType(ctx context.Context, usernames []string, categoryType string) ([]*domain.Transaction, error) {
	return r.list(ctx, selectJoined+` WHERE t.username = ANY($1) AND t.type=$2 ORDER BY t.date`, usernames, categoryType)
}

func (r *transactionRepository) RetypeAll(ctx context.Context, oldType, newType string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE transactions SET type=$1 WHERE type=$2`, newType, oldType)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *transactionRepository) DeleteByID(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *transactionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = ANY($1)`, ids)
	return err
}

func (r *transactionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE username=$1`, username)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.Username, &tx.Type, &tx.Amount, &tx.Date, &tx.Color); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}
	return transactions, rows.Err()
}
