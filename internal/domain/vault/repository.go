package vault

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, v *Vault) (*Vault, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Vault, error)
	// ListByUserID returns vaults newest first. Broken vaults are only
	// included when includeBroken is set.
	ListByUserID(ctx context.Context, userID uuid.UUID, includeBroken bool) ([]*Vault, error)
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
	// WithinTx runs fn in a single database transaction. Any error from fn
	// rolls back every write made through tx.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row operations a ledger mutation needs to run atomically.
type Tx interface {
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Vault, error)
	GetWalletForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Update(ctx context.Context, v *Vault) error
	SetWallet(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error
	// AddBonusPoints adds to both points and lifetime points.
	AddBonusPoints(ctx context.Context, userID uuid.UUID, points int) error
}

// IncomeSource supplies the monthly income the creation cap is based on.
type IncomeSource interface {
	MonthlyIncome(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
}

// Notifier delivers user-facing messages about vault milestones.
type Notifier interface {
	SendToUser(ctx context.Context, userID uuid.UUID, title, body, category string, data map[string]string) error
}

// CacheInvalidator drops derived views that depend on the user's balances.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
