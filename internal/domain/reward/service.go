package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service applies the streak rule to stored rewards rows.
type Service struct {
	repo   Repository
	net    DailyNetSource
	policy Policy
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a rewards service. net may be nil unless policy is
// PolicyNetBalanceGated.
func NewService(repo Repository, net DailyNetSource, policy Policy, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, net: net, policy: policy, loc: loc, now: time.Now}
}

func (s *Service) Policy() Policy {
	return s.policy
}

// RecordActivity credits one qualifying action for the user.
func (s *Service) RecordActivity(ctx context.Context, userID uuid.UUID) (*Rewards, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}

	now := s.now().In(s.loc)
	activity := Activity{At: now, DailyNet: decimal.Zero}

	if s.policy == PolicyNetBalanceGated {
		if s.net == nil {
			return nil, fmt.Errorf("%w: net balance source not configured", ErrInvalidPolicy)
		}
		from, to := DayBounds(now)
		net, err := s.net.NetBetween(ctx, userID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to compute daily balance: %w", err)
		}
		activity.DailyNet = net
	}

	return s.repo.Apply(ctx, userID, func(current *Rewards) Rewards {
		return ApplyStreakUpdate(current, activity, s.policy)
	})
}

// Summary is the rewards view with derived badge and achievement data.
type Summary struct {
	Points             int           `json:"points"`
	LifetimePoints     int           `json:"lifetimePoints"`
	Streak             int           `json:"streak"`
	LastUpdate         *time.Time    `json:"lastUpdate,omitempty"`
	Badge              *Badge        `json:"badge,omitempty"`
	CurrentAchievement Achievement   `json:"currentAchievement"`
	Achievements       []Achievement `json:"achievements"`
	NextAchievement    *Achievement  `json:"nextAchievement,omitempty"`
	DaysToNext         int           `json:"daysToNext"`
}

// GetSummary returns the user's rewards. Users with no row get a zero summary.
func (s *Service) GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	r, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	if r != nil {
		sum.Points = r.Points
		sum.LifetimePoints = r.LifetimePoints
		sum.Streak = r.CurrentStreak(s.now().In(s.loc))
		// Rows created by vault bonuses before any activity carry an epoch date.
		if r.LastUpdate.Unix() > 0 {
			last := r.LastUpdate
			sum.LastUpdate = &last
		}
	}

	sum.Badge = BadgeFor(sum.Streak)
	sum.CurrentAchievement = CurrentAchievement(sum.Streak)
	sum.Achievements = Achievements(sum.Streak)
	if next, days, ok := NextAchievement(sum.Streak); ok {
		sum.NextAchievement = &next
		sum.DaysToNext = days
	}

	return sum, nil
}
