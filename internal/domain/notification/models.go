package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notification categories
const (
	CategoryVaults        = "vaults"
	CategoryGoals         = "goals"
	CategoryRewards       = "rewards"
	CategorySubscriptions = "subscriptions"
	CategoryGeneral       = "general"
)

var validCategories = map[string]struct{}{
	CategoryVaults:        {},
	CategoryGoals:         {},
	CategoryRewards:       {},
	CategorySubscriptions: {},
	CategoryGeneral:       {},
}

var validDeviceTypes = map[string]struct{}{
	"ios":     {},
	"android": {},
	"web":     {},
}

// Domain errors
var (
	ErrDeviceTokenNotFound  = errors.New("device token not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferencesNotFound  = errors.New("notification preferences not found")
	ErrInvalidCategory      = errors.New("invalid notification category")
	ErrInvalidDeviceType    = errors.New("device type must be 'ios', 'android' or 'web'")
	ErrInvalidToken         = errors.New("device token is required")
)

// DeviceToken represents a registered FCM device token
type DeviceToken struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"-"`
	Token      string    `json:"token"`
	DeviceType string    `json:"deviceType"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// NotificationPreference stores per-category notification toggles for a user
type NotificationPreference struct {
	UserID               uuid.UUID `json:"-"`
	VaultsEnabled        bool      `json:"vaultsEnabled"`
	GoalsEnabled         bool      `json:"goalsEnabled"`
	RewardsEnabled       bool      `json:"rewardsEnabled"`
	SubscriptionsEnabled bool      `json:"subscriptionsEnabled"`
	GeneralEnabled       bool      `json:"generalEnabled"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// DefaultPreferences has every category switched on.
func DefaultPreferences(userID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		UserID:               userID,
		VaultsEnabled:        true,
		GoalsEnabled:         true,
		RewardsEnabled:       true,
		SubscriptionsEnabled: true,
		GeneralEnabled:       true,
	}
}

// Notification represents a stored notification record
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"-"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	Data      map[string]string `json:"data"`
	OpenedAt  *time.Time        `json:"openedAt"`
	CreatedAt time.Time         `json:"createdAt"`
}

// CreateDeviceTokenParams contains parameters for registering a device
type CreateDeviceTokenParams struct {
	UserID     uuid.UUID
	Token      string
	DeviceType string
}

func (p CreateDeviceTokenParams) Validate() error {
	if p.UserID == uuid.Nil {
		return errors.New("valid user ID is required")
	}
	if p.Token == "" {
		return ErrInvalidToken
	}
	if !IsValidDeviceType(p.DeviceType) {
		return ErrInvalidDeviceType
	}
	return nil
}

// UpdatePreferenceParams contains fields for updating notification preferences
type UpdatePreferenceParams struct {
	VaultsEnabled        *bool
	GoalsEnabled         *bool
	RewardsEnabled       *bool
	SubscriptionsEnabled *bool
	GeneralEnabled       *bool
}

// Apply copies the set fields onto p.
func (params UpdatePreferenceParams) Apply(p *NotificationPreference) {
	if params.VaultsEnabled != nil {
		p.VaultsEnabled = *params.VaultsEnabled
	}
	if params.GoalsEnabled != nil {
		p.GoalsEnabled = *params.GoalsEnabled
	}
	if params.RewardsEnabled != nil {
		p.RewardsEnabled = *params.RewardsEnabled
	}
	if params.SubscriptionsEnabled != nil {
		p.SubscriptionsEnabled = *params.SubscriptionsEnabled
	}
	if params.GeneralEnabled != nil {
		p.GeneralEnabled = *params.GeneralEnabled
	}
}

// CreateNotificationParams contains parameters for storing a notification
type CreateNotificationParams struct {
	UserID   uuid.UUID
	Title    string
	Message  string
	Category string
	Data     map[string]string
}

func (p CreateNotificationParams) Validate() error {
	if p.UserID == uuid.Nil {
		return errors.New("valid user ID is required")
	}
	if p.Title == "" {
		return errors.New("notification title is required")
	}
	if p.Message == "" {
		return errors.New("notification message is required")
	}
	if !IsValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func IsValidCategory(c string) bool {
	_, ok := validCategories[c]
	return ok
}

func IsValidDeviceType(dt string) bool {
	_, ok := validDeviceTypes[dt]
	return ok
}

// IsCategoryEnabled checks if a specific category is enabled in preferences
func (p *NotificationPreference) IsCategoryEnabled(category string) bool {
	switch category {
	case CategoryVaults:
		return p.VaultsEnabled
	case CategoryGoals:
		return p.GoalsEnabled
	case CategoryRewards:
		return p.RewardsEnabled
	case CategorySubscriptions:
		return p.SubscriptionsEnabled
	case CategoryGeneral:
		return p.GeneralEnabled
	default:
		return false
	}
}
