package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInvalidIncome     = errors.New("monthly income must be greater than zero")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

type Profile struct {
	UserID        uuid.UUID       `json:"userId"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	UPIID         string          `json:"upiId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NeedsOnboarding reports whether the user still has to enter a monthly income.
func (p *Profile) NeedsOnboarding() bool {
	return !p.MonthlyIncome.IsPositive()
}

type UpdateParams struct {
	MonthlyIncome *decimal.Decimal
	UPIID         *string
}

func (p UpdateParams) Validate() error {
	if p.MonthlyIncome != nil && !p.MonthlyIncome.IsPositive() {
		return ErrInvalidIncome
	}
	if p.UPIID != nil && len(*p.UPIID) > 64 {
		return errors.New("UPI id must be 64 characters or less")
	}
	return nil
}
