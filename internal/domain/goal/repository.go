package goal

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, g *Goal) (*Goal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, status Status) ([]*Goal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Update locks the goal row, passes it to fn and stores the result in
	// the same transaction. An error from fn aborts without writing.
	Update(ctx context.Context, id uuid.UUID, fn func(g *Goal) error) (*Goal, error)
}

// Notifier delivers the goal completion message.
type Notifier interface {
	SendToUser(ctx context.Context, userID uuid.UUID, title, body, category string, data map[string]string) error
}
