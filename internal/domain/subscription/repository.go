package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Subscription) (*Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// ListByUserID returns subscriptions ordered by renewal date.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateRenewalDate(ctx context.Context, id uuid.UUID, renewal time.Time) error
	// ListUserIDs returns every user that has at least one subscription.
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Notifier delivers renewal reminders.
type Notifier interface {
	SendToUser(ctx context.Context, userID uuid.UUID, title, body, category string, data map[string]string) error
}
