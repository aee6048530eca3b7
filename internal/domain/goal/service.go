package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo   Repository
	notify Notifier
	now    func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) SetNotifier(n Notifier) {
	s.notify = n
}

// View is a goal with its derived progress fields.
type View struct {
	*Goal
	Progress           float64         `json:"progress"`
	DaysLeft           int             `json:"daysLeft"`
	DailySavingsNeeded decimal.Decimal `json:"dailySavingsNeeded"`
	Message            string          `json:"message"`
}

func (s *Service) view(g *Goal) *View {
	now := s.now()
	progress := Progress(g)
	return &View{
		Goal:               g,
		Progress:           progress,
		DaysLeft:           DaysLeft(g, now),
		DailySavingsNeeded: DailySavingsNeeded(g, now),
		Message:            MotivationalMessage(progress),
	}
}

func (s *Service) CreateGoal(ctx context.Context, params CreateParams) (*View, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	emoji := params.Emoji
	if emoji == "" {
		emoji = DefaultEmoji
	}

	now := s.now()
	g, err := s.repo.Create(ctx, &Goal{
		ID:            uuid.New(),
		UserID:        params.UserID,
		Title:         params.Title,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      params.Deadline,
		Emoji:         emoji,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}
	return s.view(g), nil
}

func (s *Service) GetGoal(ctx context.Context, id, userID uuid.UUID) (*View, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	return s.view(g), nil
}

func (s *Service) ListGoals(ctx context.Context, userID uuid.UUID, status Status) ([]*View, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}

	goals, err := s.repo.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	views := make([]*View, len(goals))
	for i, g := range goals {
		views[i] = s.view(g)
	}
	return views, nil
}

// AddToGoal records a contribution. The completion notification is sent
// only on the contribution that completes the goal.
func (s *Service) AddToGoal(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*View, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var justCompleted bool
	g, err := s.repo.Update(ctx, id, func(g *Goal) error {
		if g.UserID != userID {
			return ErrForbidden
		}
		wasCompleted := g.IsCompleted()
		if err := AddToGoal(g, amount, s.now()); err != nil {
			return err
		}
		justCompleted = !wasCompleted && g.IsCompleted()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if justCompleted && s.notify != nil {
		title := fmt.Sprintf("%s %s achieved!", g.Emoji, g.Title)
		body := fmt.Sprintf("You reached your goal of %s PP.", g.TargetAmount.StringFixed(2))
		if err := s.notify.SendToUser(ctx, userID, title, body, "goals", map[string]string{"goalId": g.ID.String()}); err != nil {
			logger.Warnf("Failed to send goal completion notification to user %s: %v", userID, err)
		}
	}

	return s.view(g), nil
}

func (s *Service) DeleteGoal(ctx context.Context, id, userID uuid.UUID) error {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
