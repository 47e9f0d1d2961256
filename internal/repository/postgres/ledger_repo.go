package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aleixpv/fortuna/internal/domain"
)

type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// keyColumn maps a lookup key to the column it matches. Both values are
// fixed strings, never user input.
func keyColumn(key domain.LookupKey) string {
	if key.Kind == domain.KeyNationalID {
		return "dni"
	}
	return "nickname"
}

func (r *LedgerRepo) Credit(ctx context.Context, key domain.LookupKey, amount decimal.Decimal, instrument string) (*domain.User, error) {
	return r.mutate(ctx, key, amount, instrument, domain.TransactionDeposit)
}

func (r *LedgerRepo) Debit(ctx context.Context, key domain.LookupKey, amount decimal.Decimal, instrument string) (*domain.User, error) {
	return r.mutate(ctx, key, amount, instrument, domain.TransactionWithdrawal)
}

// mutate applies a single conditional balance update and appends the
// transaction-log row in the same database transaction. The balance check
// for debits happens inside the UPDATE itself, so concurrent debits can
// never overdraw.
func (r *LedgerRepo) mutate(ctx context.Context, key domain.LookupKey, amount decimal.Decimal, instrument, txType string) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	col := keyColumn(key)
	var query string
	if txType == domain.TransactionDeposit {
		query = `
			UPDATE users SET balance = balance + $2, updated_at = now()
			WHERE ` + col + ` = $1
			RETURNING ` + userColumns
	} else {
		query = `
			UPDATE users SET balance = balance - $2, updated_at = now()
			WHERE ` + col + ` = $1 AND balance >= $2
			RETURNING ` + userColumns
	}

	var u domain.User
	err = scanUserRow(tx.QueryRow(ctx, query, key.Value, amount), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		if txType == domain.TransactionDeposit {
			return nil, domain.ErrNotFound
		}
		return nil, r.classifyDebitMiss(ctx, tx, col, key.Value)
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, amount, instrument, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), u.ID, amount, instrument, txType, time.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &u, nil
}

// classifyDebitMiss tells a missing user apart from insufficient funds after
// a conditional debit matched no rows.
func (r *LedgerRepo) classifyDebitMiss(ctx context.Context, tx pgx.Tx, col, value string) error {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, "SELECT balance FROM users WHERE "+col+" = $1", value).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrInsufficientFunds
}

func (r *LedgerRepo) GetBalance(ctx context.Context, key domain.LookupKey) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx,
		"SELECT balance FROM users WHERE "+keyColumn(key)+" = $1", key.Value,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, domain.ErrNotFound
	}
	return balance, err
}

func (r *LedgerRepo) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, user_id, amount, instrument, type, created_at FROM transactions ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Instrument, &t.Type, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
