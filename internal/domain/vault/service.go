package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const notificationCategory = "vaults"

type Service struct {
	repo    Repository
	income  IncomeSource
	rules   Rules
	now     func() time.Time
	notify  Notifier
	cache   CacheInvalidator
	metrics *ledgerMetrics
}

type ledgerMetrics struct {
	saves  metric.Int64Counter
	breaks metric.Int64Counter
	bonus  metric.Int64Counter
}

func newLedgerMetrics() *ledgerMetrics {
	meter := otel.Meter("pennyverse.ledger")
	saves, _ := meter.Int64Counter("ledger.vault.saves",
		metric.WithDescription("Vault save attempts by result"))
	breaks, _ := meter.Int64Counter("ledger.vault.breaks",
		metric.WithDescription("Vault break attempts by result"))
	bonus, _ := meter.Int64Counter("ledger.bonus.points",
		metric.WithDescription("Streak bonus points granted by vault saves"))
	return &ledgerMetrics{saves: saves, breaks: breaks, bonus: bonus}
}

func (m *ledgerMetrics) record(ctx context.Context, counter metric.Int64Counter, err error) {
	if counter == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrVaultBroken),
		errors.Is(err, ErrVaultCompleted), errors.Is(err, ErrAlreadyBroken):
		result = "rejected"
	default:
		result = "error"
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func NewService(repo Repository, income IncomeSource, rules Rules) *Service {
	return &Service{
		repo:    repo,
		income:  income,
		rules:   rules,
		now:     time.Now,
		metrics: newLedgerMetrics(),
	}
}

// SetNotifier enables push messages for bonuses and completed goals.
func (s *Service) SetNotifier(n Notifier) {
	s.notify = n
}

func (s *Service) SetCacheInvalidator(c CacheInvalidator) {
	s.cache = c
}

func (s *Service) Rules() Rules {
	return s.rules
}

func (s *Service) CreateVault(ctx context.Context, params CreateParams) (*Vault, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	income, err := s.income.MonthlyIncome(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly income: %w", err)
	}

	v, err := s.rules.NewVault(params, income, s.now())
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, params.UserID)
	return created, nil
}

// GetVault returns the vault if it belongs to userID.
func (s *Service) GetVault(ctx context.Context, id, userID uuid.UUID) (*Vault, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, ErrForbidden
	}
	return v, nil
}

func (s *Service) ListVaults(ctx context.Context, userID uuid.UUID, includeBroken bool) ([]*Vault, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID, includeBroken)
}

// SaveOutcome reports what a save changed.
type SaveOutcome struct {
	Vault         *Vault          `json:"vault"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	BonusPoints   int             `json:"bonusPoints"`
	Completed     bool            `json:"completed"`
}

// SaveToVault moves amount from the wallet into the vault. A nil amount
// saves the vault's daily amount. The vault row, the wallet and any bonus
// points change together or not at all.
func (s *Service) SaveToVault(ctx context.Context, id, userID uuid.UUID, amount *decimal.Decimal) (out *SaveOutcome, err error) {
	defer func() { s.metrics.record(ctx, s.metrics.saves, err) }()

	now := s.now()
	err = s.repo.WithinTx(ctx, func(tx Tx) error {
		v, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v.UserID != userID {
			return ErrForbidden
		}

		amt := v.DailySaveAmount
		if amount != nil {
			amt = *amount
		}

		wallet, err := tx.GetWalletForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		res, err := Save(*v, amt, wallet, now)
		if err != nil {
			return err
		}

		if err := tx.Update(ctx, &res.Vault); err != nil {
			return err
		}
		if err := tx.SetWallet(ctx, userID, res.Wallet); err != nil {
			return err
		}
		if res.BonusPoints > 0 {
			if err := tx.AddBonusPoints(ctx, userID, res.BonusPoints); err != nil {
				return err
			}
		}

		saved := res.Vault
		out = &SaveOutcome{
			Vault:         &saved,
			WalletBalance: res.Wallet,
			BonusPoints:   res.BonusPoints,
			Completed:     res.Completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.BonusPoints > 0 && s.metrics.bonus != nil {
		s.metrics.bonus.Add(ctx, int64(out.BonusPoints))
	}

	s.invalidate(ctx, userID)
	s.announceSave(ctx, userID, out)
	return out, nil
}

// BreakOutcome reports the refund of a broken vault.
type BreakOutcome struct {
	Vault         *Vault          `json:"vault"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	Refund        decimal.Decimal `json:"refund"`
}

// BreakVault unlocks the vault and returns its balance to the wallet.
func (s *Service) BreakVault(ctx context.Context, id, userID uuid.UUID) (out *BreakOutcome, err error) {
	defer func() { s.metrics.record(ctx, s.metrics.breaks, err) }()

	now := s.now()
	err = s.repo.WithinTx(ctx, func(tx Tx) error {
		v, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v.UserID != userID {
			return ErrForbidden
		}

		wallet, err := tx.GetWalletForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		res, err := Break(*v, wallet, now)
		if err != nil {
			return err
		}

		if err := tx.Update(ctx, &res.Vault); err != nil {
			return err
		}
		if err := tx.SetWallet(ctx, userID, res.Wallet); err != nil {
			return err
		}

		broken := res.Vault
		out = &BreakOutcome{Vault: &broken, WalletBalance: res.Wallet, Refund: res.Refund}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{
		"user_id":  userID,
		"vault_id": id,
		"refund":   out.Refund.StringFixed(2),
	}).Info("Vault broken")

	s.invalidate(ctx, userID)
	return out, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Warnf("Failed to invalidate cached views for user %s: %v", userID, err)
	}
}

func (s *Service) announceSave(ctx context.Context, userID uuid.UUID, out *SaveOutcome) {
	if s.notify == nil {
		return
	}

	data := map[string]string{"vaultId": out.Vault.ID.String()}
	if out.Completed {
		title := fmt.Sprintf("%s %s unlocked!", out.Vault.Emoji, out.Vault.GoalName)
		body := fmt.Sprintf("You saved %s PP and reached your target.", out.Vault.SavedAmount.StringFixed(2))
		if err := s.notify.SendToUser(ctx, userID, title, body, notificationCategory, data); err != nil {
			logger.Warnf("Failed to send vault completion notification to user %s: %v", userID, err)
		}
	}
	if out.BonusPoints > 0 {
		title := fmt.Sprintf("%d day streak!", out.Vault.StreakDays)
		body := fmt.Sprintf("You earned %d bonus points for saving to %s.", out.BonusPoints, out.Vault.GoalName)
		if err := s.notify.SendToUser(ctx, userID, title, body, "rewards", data); err != nil {
			logger.Warnf("Failed to send streak bonus notification to user %s: %v", userID, err)
		}
	}
}
