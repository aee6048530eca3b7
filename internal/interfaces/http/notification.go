package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"pennyverse/internal/domain/notification"
)

type NotificationService interface {
	RegisterDevice(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*notification.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, params notification.UpdatePreferenceParams) (*notification.NotificationPreference, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*notification.Notification, int, error)
	MarkNotificationOpened(ctx context.Context, notificationID, userID uuid.UUID) error
}

type NotificationHandler struct {
	notificationService NotificationService
}

func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type RegisterDeviceRequest struct {
	Token      string `json:"token" validate:"required,max=4096"`
	DeviceType string `json:"deviceType" validate:"required,oneof=ios android web"`
}

type UpdatePreferencesRequest struct {
	VaultsEnabled        *bool `json:"vaultsEnabled"`
	GoalsEnabled         *bool `json:"goalsEnabled"`
	RewardsEnabled       *bool `json:"rewardsEnabled"`
	SubscriptionsEnabled *bool `json:"subscriptionsEnabled"`
	GeneralEnabled       *bool `json:"generalEnabled"`
}

type NotificationListResponse struct {
	Notifications []*notification.Notification `json:"notifications"`
	Pagination    PaginationResponse           `json:"pagination"`
}

type PaginationResponse struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// HandleNotifications handles GET /api/notifications
func (h *NotificationHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	notifications, total, err := h.notificationService.ListNotifications(r.Context(), userID, page, perPage)
	if err != nil {
		writeServiceError(w, r, "list notifications", err)
		return
	}
	if notifications == nil {
		notifications = []*notification.Notification{}
	}

	pages := 0
	if total > 0 {
		pages = (total + perPage - 1) / perPage
	}

	writeJSON(w, http.StatusOK, NotificationListResponse{
		Notifications: notifications,
		Pagination: PaginationResponse{
			Page:    page,
			PerPage: perPage,
			Total:   total,
			Pages:   pages,
		},
	})
}

// HandleOpen handles POST /api/notifications/{id}/open
func (h *NotificationHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.notificationService.MarkNotificationOpened(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, "open notification", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandlePreferences handles GET/PUT /api/notifications/preferences
func (h *NotificationHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		prefs, err := h.notificationService.GetPreferences(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, "get preferences", err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	case http.MethodPut:
		var req UpdatePreferencesRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		prefs, err := h.notificationService.UpdatePreferences(r.Context(), userID, notification.UpdatePreferenceParams{
			VaultsEnabled:        req.VaultsEnabled,
			GoalsEnabled:         req.GoalsEnabled,
			RewardsEnabled:       req.RewardsEnabled,
			SubscriptionsEnabled: req.SubscriptionsEnabled,
			GeneralEnabled:       req.GeneralEnabled,
		})
		if err != nil {
			writeServiceError(w, r, "update preferences", err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)

	default:
		methodNotAllowed(w)
	}
}

// HandleRegisterDevice handles POST /api/notifications/devices
func (h *NotificationHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req RegisterDeviceRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.notificationService.RegisterDevice(r.Context(), notification.CreateDeviceTokenParams{
		UserID:     userID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
	if err != nil {
		writeServiceError(w, r, "register device", err)
		return
	}
	writeJSON(w, http.StatusCreated, token)
}
