package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	notify Notifier
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a subscription service. Renewal days are calendar
// days in loc; a nil loc means UTC.
func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) SetNotifier(n Notifier) {
	s.notify = n
}

func (s *Service) CreateSubscription(ctx context.Context, params CreateParams) (*Subscription, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Subscription{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Name:        params.Name,
		Cost:        params.Cost,
		RenewalDate: StartOfDay(params.RenewalDate, s.loc),
		CreatedAt:   s.now(),
	})
}

func (s *Service) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// Upcoming returns the subscriptions renewing within the next week.
func (s *Service) Upcoming(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
	subs, err := s.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	upcoming := make([]*Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.IsUpcoming(now) {
			upcoming = append(upcoming, sub)
		}
	}
	return upcoming, nil
}

func (s *Service) DeleteSubscription(ctx context.Context, id, userID uuid.UUID) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// RenewalResult summarises one renewal check for a user.
type RenewalResult struct {
	Advanced int
	Reminded int
}

// CheckRenewals rolls lapsed renewal dates forward and reminds the user of
// renewals due within reminderDays.
func (s *Service) CheckRenewals(ctx context.Context, userID uuid.UUID, reminderDays int) (*RenewalResult, error) {
	subs, err := s.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	res := &RenewalResult{}
	for _, sub := range subs {
		if sub.DaysUntilRenewal(now) < 0 {
			next := NextRenewal(sub.RenewalDate, now)
			if err := s.repo.UpdateRenewalDate(ctx, sub.ID, next); err != nil {
				return res, fmt.Errorf("failed to advance renewal for subscription %s: %w", sub.ID, err)
			}
			sub.RenewalDate = next
			res.Advanced++
		}

		days := sub.DaysUntilRenewal(now)
		if days < 0 || days > reminderDays || s.notify == nil {
			continue
		}

		title := fmt.Sprintf("%s renews soon", sub.Name)
		body := fmt.Sprintf("%s PP will be charged on %s.", sub.Cost.StringFixed(2), sub.RenewalDate.In(s.loc).Format("Jan 2"))
		if days == 0 {
			body = fmt.Sprintf("%s PP will be charged today.", sub.Cost.StringFixed(2))
		}
		data := map[string]string{"subscriptionId": sub.ID.String()}
		if err := s.notify.SendToUser(ctx, userID, title, body, "subscriptions", data); err != nil {
			logger.Warnf("Failed to send renewal reminder for subscription %s: %v", sub.ID, err)
			continue
		}
		res.Reminded++
	}

	return res, nil
}

// UsersWithSubscriptions lists the users the renewal job should visit.
func (s *Service) UsersWithSubscriptions(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListUserIDs(ctx)
}
