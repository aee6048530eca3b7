package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// ListByUserID returns transactions newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListExpensesSince returns expense entries created at or after since,
	// newest first. A zero since returns all of them.
	ListExpensesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Transaction, error)
	Totals(ctx context.Context, userID uuid.UUID) (Totals, error)
	// ExpenseByCategory returns expense sums ordered by amount, largest first.
	ExpenseByCategory(ctx context.Context, userID uuid.UUID) ([]CategoryTotal, error)
	// NetBetween is income minus expense for entries in [from, to).
	NetBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
