package goal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrForbidden     = errors.New("forbidden: goal does not belong to user")
)

const DefaultEmoji = "🎯"

// EmojiOptions are the icons offered when creating a goal.
var EmojiOptions = []string{"🎯", "📱", "✈️", "🏠", "🚗", "💍", "🎓", "💰", "🏖️", "🎮"}

type Goal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"-"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Emoji         string          `json:"emoji"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (g *Goal) IsCompleted() bool {
	return g.CompletedAt != nil
}

// Status filters goal listings.
type Status string

const (
	StatusActive Status = "active"
	StatusAll    Status = "all"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusAll:
		return StatusAll, nil
	default:
		return "", fmt.Errorf("%w: status must be active or all", ErrInvalidInput)
	}
}

type CreateParams struct {
	UserID       uuid.UUID
	Title        string
	TargetAmount decimal.Decimal
	Deadline     time.Time
	Emoji        string
}

func (p CreateParams) Validate() error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("%w: valid user ID is required", ErrInvalidInput)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(p.Title) > 128 {
		return fmt.Errorf("%w: title must be 128 characters or less", ErrInvalidInput)
	}
	if !p.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be greater than zero", ErrInvalidInput)
	}
	if p.Deadline.IsZero() {
		return fmt.Errorf("%w: deadline is required", ErrInvalidInput)
	}
	return nil
}
