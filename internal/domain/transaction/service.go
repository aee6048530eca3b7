package transaction

import (
	"context"
	"errors"
	"time"

	"pennyverse/internal/domain/reward"
	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
)

// ActivityRecorder credits streak activity for qualifying transactions.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID uuid.UUID) (*reward.Rewards, error)
}

// CacheInvalidator drops derived views that depend on the user's transactions.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo    Repository
	rewards ActivityRecorder
	cache   CacheInvalidator
	now     func() time.Time
}

func NewService(repo Repository, rewards ActivityRecorder) *Service {
	return &Service{repo: repo, rewards: rewards, now: time.Now}
}

func (s *Service) SetCacheInvalidator(c CacheInvalidator) {
	s.cache = c
}

// CreateResult is a stored transaction plus the rewards it produced, if any.
type CreateResult struct {
	Transaction *Transaction    `json:"transaction"`
	Rewards     *reward.Rewards `json:"rewards,omitempty"`
}

// CreateTransaction stores a new entry. Income is labelled Income, expenses
// take the caller's category or are classified from the description. Income
// also counts as streak activity.
func (s *Service) CreateTransaction(ctx context.Context, params CreateTransactionParams) (*CreateResult, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	category := CategoryIncome
	if params.Type == TypeExpense {
		category = params.Category
		if category == "" {
			category = Classify(params.Description)
		}
	}

	t := &Transaction{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Amount:      params.Amount,
		Description: params.Description,
		Type:        params.Type,
		Category:    category,
		CreatedAt:   s.now(),
	}
	if params.Payee != "" {
		payee := params.Payee
		t.Payee = &payee
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	res := &CreateResult{Transaction: created}
	if created.Type == TypeIncome && s.rewards != nil {
		r, err := s.rewards.RecordActivity(ctx, params.UserID)
		if err != nil {
			// The entry is committed; streak failures are logged only.
			logger.Errorf("Failed to record streak activity for user %s: %v", params.UserID, err)
		} else {
			res.Rewards = r
		}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, params.UserID); err != nil {
			logger.Warnf("Failed to invalidate cached views for user %s: %v", params.UserID, err)
		}
	}

	return res, nil
}

func (s *Service) GetTransaction(ctx context.Context, id, userID uuid.UUID) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrForbidden
	}
	return t, nil
}

// ListTransactions returns one page of the user's transactions and the total count.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Transaction, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, errors.New("valid user ID is required")
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := s.repo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
