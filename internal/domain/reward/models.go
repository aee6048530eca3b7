package reward

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRewardsNotFound = errors.New("rewards not found")
	ErrInvalidPolicy   = errors.New("invalid streak policy")
)

// Rewards is the single per-user points and streak row.
type Rewards struct {
	UserID         uuid.UUID `json:"-"`
	Points         int       `json:"points"`
	LifetimePoints int       `json:"lifetimePoints"`
	Streak         int       `json:"streak"`
	LastUpdate     time.Time `json:"lastUpdate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Policy selects which streak accrual rule is applied.
type Policy string

const (
	// PolicyConsecutiveDay rewards any qualifying action and tracks consecutive calendar days.
	PolicyConsecutiveDay Policy = "consecutive_day"
	// PolicyNetBalanceGated only extends the streak when the day's net balance is not negative.
	PolicyNetBalanceGated Policy = "net_balance"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyConsecutiveDay, PolicyNetBalanceGated:
		return Policy(s), nil
	case "":
		return PolicyConsecutiveDay, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Activity describes the qualifying action being credited.
type Activity struct {
	At time.Time
	// DailyNet is income minus expense recorded on the activity's day.
	// Only PolicyNetBalanceGated reads it.
	DailyNet decimal.Decimal
}
