package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pennyverse/internal/domain/transaction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, amount, description, type, category, payee, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var payee sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Description, &t.Type, &t.Category, &payee, &t.CreatedAt); err != nil {
		return nil, err
	}
	if payee.Valid {
		t.Payee = &payee.String
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, amount, description, type, category, payee, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns

	created, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Amount, t.Description, t.Type, t.Category, t.Payee, t.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *TransactionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) ListExpensesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND type = 'expense' AND created_at >= $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID, since)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []*transaction.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepository) Totals(ctx context.Context, userID uuid.UUID) (transaction.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
	`

	var totals transaction.Totals
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&totals.Income, &totals.Expense); err != nil {
		return transaction.Totals{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return totals, nil
}

func (r *TransactionRepository) ExpenseByCategory(ctx context.Context, userID uuid.UUID) ([]transaction.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		GROUP BY category
		ORDER BY total DESC, category
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses: %w", err)
	}
	defer rows.Close()

	totals := []transaction.CategoryTotal{}
	for rows.Next() {
		var ct transaction.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *TransactionRepository) NetBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	`

	var net decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute net balance: %w", err)
	}
	return net, nil
}
