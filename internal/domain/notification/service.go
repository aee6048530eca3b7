package notification

import (
	"context"
	"errors"

	"pennyverse/internal/shared/logger"

	"github.com/google/uuid"
)

// Service contains the business logic for notification operations
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new notification service. messenger may be nil, in
// which case notifications are only stored.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	token, err := s.repo.UpsertDeviceToken(ctx, params)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPreferences(ctx, params.UserID); errors.Is(err, ErrPreferencesNotFound) {
		if _, err := s.repo.UpsertPreferences(ctx, params.UserID, UpdatePreferenceParams{}); err != nil {
			logger.Warnf("Failed to create default notification preferences for user %s: %v", params.UserID, err)
		}
	}

	return token, nil
}

// GetPreferences returns the user's toggles, or all-enabled defaults if none are stored.
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (*NotificationPreference, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, params UpdatePreferenceParams) (*NotificationPreference, error) {
	if userID == uuid.Nil {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.UpsertPreferences(ctx, userID, params)
}

// ListNotifications returns paginated notifications for a user
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*Notification, int, error) {
	if userID == uuid.Nil {
		return nil, 0, errors.New("valid user ID is required")
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return s.repo.ListByUserID(ctx, userID, page, perPage)
}

func (s *Service) MarkNotificationOpened(ctx context.Context, notificationID, userID uuid.UUID) error {
	if notificationID == uuid.Nil {
		return errors.New("notification ID is required")
	}
	if userID == uuid.Nil {
		return errors.New("valid user ID is required")
	}

	return s.repo.MarkOpened(ctx, notificationID, userID)
}

// SendToUser pushes a message to every active device of the user and
// stores the notification record. Disabled categories are skipped silently.
func (s *Service) SendToUser(ctx context.Context, userID uuid.UUID, title, body, category string, data map[string]string) error {
	if !IsValidCategory(category) {
		return ErrInvalidCategory
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return err
	}

	if !prefs.IsCategoryEnabled(category) {
		logger.Debugf("Notification skipped for user %s: category %q disabled", userID, category)
		return nil
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(tokens) > 0 && s.messenger != nil {
		tokenStrings := make([]string, len(tokens))
		for i, t := range tokens {
			tokenStrings[i] = t.Token
		}

		if err := s.messenger.SendMulticast(ctx, tokenStrings, title, body, data); err != nil {
			logger.Errorf("Error sending notification to user %s: %v", userID, err)
		}
	}

	if _, err := s.repo.CreateNotification(ctx, CreateNotificationParams{
		UserID:   userID,
		Title:    title,
		Message:  body,
		Category: category,
		Data:     data,
	}); err != nil {
		logger.Errorf("Error storing notification for user %s: %v", userID, err)
	}

	return nil
}
