package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// GetOrCreate returns the user's profile, inserting an empty one on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Update(ctx context.Context, userID uuid.UUID, params UpdateParams) (*Profile, error)
	// AdjustWallet adds delta to the wallet atomically and fails with
	// ErrInsufficientFunds if the balance would become negative.
	AdjustWallet(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*Profile, error)
}
