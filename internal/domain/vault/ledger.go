package vault

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BonusInterval = 7
	BonusPoints   = 10
	DefaultEmoji  = "🎯"
)

// Rules carries the tunable limits of the ledger.
type Rules struct {
	// IncomeCap is the largest target allowed, as a fraction of monthly income.
	IncomeCap decimal.Decimal
}

func DefaultRules() Rules {
	return RulesWithCapPercent(20)
}

func RulesWithCapPercent(percent int) Rules {
	return Rules{IncomeCap: decimal.NewFromInt(int64(percent)).Div(decimal.NewFromInt(100))}
}

// MaxTarget is the largest vault target allowed for monthlyIncome.
func (r Rules) MaxTarget(monthlyIncome decimal.Decimal) decimal.Decimal {
	return monthlyIncome.Mul(r.IncomeCap)
}

// NewVault validates params against the income cap and returns a fresh, locked vault.
func (r Rules) NewVault(params CreateParams, monthlyIncome decimal.Decimal, now time.Time) (*Vault, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	max := r.MaxTarget(monthlyIncome)
	if params.TargetAmount.GreaterThan(max) {
		return nil, fmt.Errorf("%w: target %s is above the limit of %s", ErrGoalTooLarge, params.TargetAmount.StringFixed(2), max.StringFixed(2))
	}

	emoji := params.Emoji
	if emoji == "" {
		emoji = DefaultEmoji
	}

	return &Vault{
		ID:              uuid.New(),
		UserID:          params.UserID,
		GoalName:        params.GoalName,
		Emoji:           emoji,
		TargetAmount:    params.TargetAmount,
		SavedAmount:     decimal.Zero,
		DailySaveAmount: params.DailySaveAmount,
		StreakDays:      0,
		IsLocked:        true,
		IsBroken:        false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// StreakBonus returns the points earned when streak days move from before to after.
// Points are granted once per completed week, so the sequence 1..14 pays out at 7 and 14 only.
func StreakBonus(before, after int) int {
	return BonusPoints*(after/BonusInterval) - BonusPoints*(before/BonusInterval)
}

type SaveResult struct {
	Vault       Vault
	Wallet      decimal.Decimal
	BonusPoints int
	// Completed is true only on the save that first reached the target.
	Completed bool
}

// Save moves amount from the wallet into v. v is not modified; the
// resulting vault and wallet are returned.
func Save(v Vault, amount, wallet decimal.Decimal, now time.Time) (SaveResult, error) {
	if !amount.IsPositive() {
		return SaveResult{}, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if v.IsBroken {
		return SaveResult{}, ErrVaultBroken
	}
	if v.CompletedAt != nil {
		return SaveResult{}, ErrVaultCompleted
	}
	if amount.GreaterThan(wallet) {
		return SaveResult{}, ErrInsufficientFunds
	}

	before := v.StreakDays
	v.SavedAmount = v.SavedAmount.Add(amount)
	v.StreakDays++
	y, m, d := now.Date()
	saveDate := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	v.LastSaveDate = &saveDate
	v.UpdatedAt = now

	res := SaveResult{
		Wallet:      wallet.Sub(amount),
		BonusPoints: StreakBonus(before, v.StreakDays),
	}

	if v.SavedAmount.GreaterThanOrEqual(v.TargetAmount) {
		completedAt := now
		v.CompletedAt = &completedAt
		res.Completed = true
	}

	res.Vault = v
	return res, nil
}

type BreakResult struct {
	Vault  Vault
	Wallet decimal.Decimal
	Refund decimal.Decimal
}

// Break unlocks v and refunds its whole balance to the wallet. Streak days
// and points already granted are kept.
func Break(v Vault, wallet decimal.Decimal, now time.Time) (BreakResult, error) {
	if v.IsBroken {
		return BreakResult{}, ErrAlreadyBroken
	}

	refund := v.SavedAmount
	brokenAt := now
	v.IsBroken = true
	v.IsLocked = false
	v.BrokenAt = &brokenAt
	v.UpdatedAt = now

	return BreakResult{
		Vault:  v,
		Wallet: wallet.Add(refund),
		Refund: refund,
	}, nil
}
