package subscription

import (
	"errors"
	"fmt"
	"time"

	"pennyverse/internal/domain/reward"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden: subscription does not belong to user")
)

// UpcomingWindowDays is how far ahead a renewal counts as upcoming.
const UpcomingWindowDays = 7

type Subscription struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"-"`
	Name        string          `json:"name"`
	Cost        decimal.Decimal `json:"cost"`
	RenewalDate time.Time       `json:"renewalDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DaysUntilRenewal counts calendar days from now to the renewal day, both
// read in now's location. It is 0 on the renewal day and negative after it.
func (s *Subscription) DaysUntilRenewal(now time.Time) int {
	return reward.DaysBetween(now, s.RenewalDate.In(now.Location()))
}

func (s *Subscription) IsUpcoming(now time.Time) bool {
	days := s.DaysUntilRenewal(now)
	return days >= 0 && days <= UpcomingWindowDays
}

// NextRenewal moves a lapsed renewal date forward one month at a time
// until its calendar day, read in now's location, is today or later.
func NextRenewal(renewal, now time.Time) time.Time {
	for reward.DaysBetween(renewal, now) > 0 {
		renewal = renewal.AddDate(0, 1, 0)
	}
	return renewal
}

// StartOfDay pins t's calendar date to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

type CreateParams struct {
	UserID      uuid.UUID
	Name        string
	Cost        decimal.Decimal
	RenewalDate time.Time
}

func (p CreateParams) Validate() error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("%w: valid user ID is required", ErrInvalidInput)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(p.Name) > 128 {
		return fmt.Errorf("%w: name must be 128 characters or less", ErrInvalidInput)
	}
	if !p.Cost.IsPositive() {
		return fmt.Errorf("%w: cost must be greater than zero", ErrInvalidInput)
	}
	if p.RenewalDate.IsZero() {
		return fmt.Errorf("%w: renewal date is required", ErrInvalidInput)
	}
	return nil
}
