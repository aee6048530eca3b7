package reward

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// GetByUserID returns nil, nil when the user has no rewards row yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Rewards, error)
	// Apply loads the row under a lock, passes it to fn and stores the result
	// in the same transaction.
	Apply(ctx context.Context, userID uuid.UUID, fn func(current *Rewards) Rewards) (*Rewards, error)
}

// DailyNetSource reports income minus expense recorded in [from, to).
type DailyNetSource interface {
	NetBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
