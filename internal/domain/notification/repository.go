package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Device tokens
	UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	GetActiveTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*DeviceToken, error)
	DeactivateToken(ctx context.Context, token string) error

	// Notification preferences. GetPreferences returns ErrPreferencesNotFound
	// when the user has none stored.
	GetPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreference, error)
	UpsertPreferences(ctx context.Context, userID uuid.UUID, params UpdatePreferenceParams) (*NotificationPreference, error)

	// Notifications
	CreateNotification(ctx context.Context, params CreateNotificationParams) (*Notification, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*Notification, int, error)
	MarkOpened(ctx context.Context, notificationID, userID uuid.UUID) error
}
