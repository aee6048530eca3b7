package insight

import (
	"context"
	"fmt"
	"time"

	"pennyverse/internal/domain/profile"
	"pennyverse/internal/domain/reward"
	"pennyverse/internal/domain/transaction"
	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
)

type TransactionSource interface {
	Totals(ctx context.Context, userID uuid.UUID) (transaction.Totals, error)
	ExpenseByCategory(ctx context.Context, userID uuid.UUID) ([]transaction.CategoryTotal, error)
	ListExpensesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*transaction.Transaction, error)
}

type ProfileSource interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
}

type RewardsSource interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*reward.Summary, error)
}

type VaultCounter interface {
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
}

// Cache stores dashboards per user. Get reports false on a miss.
type Cache interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, bool, error)
	SetDashboard(ctx context.Context, userID uuid.UUID, d *Dashboard) error
}

type Service struct {
	txns     TransactionSource
	profiles ProfileSource
	rewards  RewardsSource
	vaults   VaultCounter
	cache    Cache
	now      func() time.Time
}

func NewService(txns TransactionSource, profiles ProfileSource, rewards RewardsSource, vaults VaultCounter) *Service {
	return &Service{
		txns:     txns,
		profiles: profiles,
		rewards:  rewards,
		vaults:   vaults,
		now:      time.Now,
	}
}

// SetCache enables dashboard caching. Writers must invalidate the same cache.
func (s *Service) SetCache(c Cache) {
	s.cache = c
}

// Dashboard returns the cached summary if present, otherwise builds and caches it.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	if s.cache != nil {
		d, ok, err := s.cache.GetDashboard(ctx, userID)
		if err != nil {
			logger.Warnf("Dashboard cache read failed for user %s: %v", userID, err)
		} else if ok {
			return d, nil
		}
	}

	d, err := s.buildDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, userID, d); err != nil {
			logger.Warnf("Dashboard cache write failed for user %s: %v", userID, err)
		}
	}
	return d, nil
}

func (s *Service) buildDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	totals, err := s.txns.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}
	breakdown, err := s.txns.ExpenseByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	rw, err := s.rewards.GetSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rewards: %w", err)
	}
	active, err := s.vaults.CountActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count vaults: %w", err)
	}

	return &Dashboard{
		TotalIncome:       totals.Income,
		TotalExpense:      totals.Expense,
		NetBalance:        totals.Net(),
		WalletBalance:     p.WalletBalance,
		MonthlyIncome:     p.MonthlyIncome,
		NeedsOnboarding:   p.NeedsOnboarding(),
		Points:            rw.Points,
		LifetimePoints:    rw.LifetimePoints,
		Streak:            rw.Streak,
		Badge:             rw.Badge,
		ActiveVaults:      active,
		CategoryBreakdown: TopCategories(breakdown, BreakdownSize),
		GeneratedAt:       s.now(),
	}, nil
}

// Insights builds the insight messages and the spending alert.
func (s *Service) Insights(ctx context.Context, userID uuid.UUID) (*Report, error) {
	totals, err := s.txns.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}
	breakdown, err := s.txns.ExpenseByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	expenses, err := s.txns.ListExpensesSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	return &Report{
		TotalIncome:       totals.Income,
		TotalExpense:      totals.Expense,
		Insights:          Messages(totals, breakdown),
		CategoryBreakdown: breakdown,
		SpendingAlert:     CheckSpending(expenses, s.now()),
	}, nil
}
