package vault

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrGoalTooLarge      = errors.New("goal exceeds the allowed share of monthly income")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrVaultNotFound     = errors.New("vault not found")
	ErrForbidden         = errors.New("forbidden: vault does not belong to user")
	ErrAlreadyBroken     = errors.New("vault is already broken")
	ErrVaultBroken       = errors.New("cannot save to a broken vault")
	ErrVaultCompleted    = errors.New("vault has already reached its target")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusBroken    Status = "broken"
)

// Vault is a locked savings balance tagged to a goal.
type Vault struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"-"`
	GoalName        string          `json:"goalName"`
	Emoji           string          `json:"emoji"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	SavedAmount     decimal.Decimal `json:"savedAmount"`
	DailySaveAmount decimal.Decimal `json:"dailySaveAmount"`
	StreakDays      int             `json:"streakDays"`
	IsLocked        bool            `json:"isLocked"`
	IsBroken        bool            `json:"isBroken"`
	BrokenAt        *time.Time      `json:"brokenAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	LastSaveDate    *time.Time      `json:"lastSaveDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (v *Vault) Status() Status {
	switch {
	case v.IsBroken:
		return StatusBroken
	case v.CompletedAt != nil:
		return StatusCompleted
	default:
		return StatusActive
	}
}

// Progress is saved/target as a percentage capped at 100.
func (v *Vault) Progress() float64 {
	if !v.TargetAmount.IsPositive() {
		return 0
	}
	p, _ := v.SavedAmount.Div(v.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if p > 100 {
		return 100
	}
	return p
}

// Remaining is the amount still missing to reach the target, never negative.
func (v *Vault) Remaining() decimal.Decimal {
	r := v.TargetAmount.Sub(v.SavedAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

type CreateParams struct {
	UserID          uuid.UUID
	GoalName        string
	Emoji           string
	TargetAmount    decimal.Decimal
	DailySaveAmount decimal.Decimal
}

// Normalize trims the goal name and emoji.
func (p *CreateParams) Normalize() {
	p.GoalName = strings.TrimSpace(p.GoalName)
	p.Emoji = strings.TrimSpace(p.Emoji)
}

func (p CreateParams) Validate() error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("%w: valid user ID is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.GoalName) == "" {
		return fmt.Errorf("%w: goal name is required", ErrInvalidInput)
	}
	if len(p.GoalName) > 128 {
		return fmt.Errorf("%w: goal name must be 128 characters or less", ErrInvalidInput)
	}
	if !p.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be greater than zero", ErrInvalidInput)
	}
	if !p.DailySaveAmount.IsPositive() {
		return fmt.Errorf("%w: daily save amount must be greater than zero", ErrInvalidInput)
	}
	return nil
}
