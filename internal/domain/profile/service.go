package profile

import (
	"context"
	"errors"

	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CacheInvalidator drops derived views that show wallet or income.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo  Repository
	cache CacheInvalidator
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SetCacheInvalidator(c CacheInvalidator) {
	s.cache = c
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Warnf("Failed to invalidate cached views for user %s: %v", userID, err)
	}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, params UpdateParams) (*Profile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, userID, params)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return p, nil
}

// TopUp credits the wallet with money moved in from outside the app.
func (s *Service) TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*Profile, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if _, err := s.repo.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	p, err := s.repo.AdjustWallet(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return p, nil
}

// MonthlyIncome satisfies vault.IncomeSource.
func (s *Service) MonthlyIncome(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.MonthlyIncome, nil
}
