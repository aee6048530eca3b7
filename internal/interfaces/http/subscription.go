package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/subscription"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, params subscription.CreateParams) (*subscription.Subscription, error)
	ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*subscription.Subscription, error)
	Upcoming(ctx context.Context, userID uuid.UUID) ([]*subscription.Subscription, error)
	DeleteSubscription(ctx context.Context, id, userID uuid.UUID) error
}

type SubscriptionHandler struct {
	subscriptions SubscriptionService
}

func NewSubscriptionHandler(subscriptions SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

type CreateSubscriptionRequest struct {
	Name        string          `json:"name" validate:"required,max=128"`
	Cost        decimal.Decimal `json:"cost"`
	RenewalDate string          `json:"renewalDate" validate:"required"`
}

// HandleSubscriptions handles GET (list) and POST /api/subscriptions
func (h *SubscriptionHandler) HandleSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		subs, err := h.subscriptions.ListSubscriptions(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, "list subscriptions", err)
			return
		}
		writeSubscriptions(w, subs)

	case http.MethodPost:
		var req CreateSubscriptionRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		renewal, err := parseDate(req.RenewalDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sub, err := h.subscriptions.CreateSubscription(r.Context(), subscription.CreateParams{
			UserID:      userID,
			Name:        req.Name,
			Cost:        req.Cost,
			RenewalDate: renewal,
		})
		if err != nil {
			writeServiceError(w, r, "create subscription", err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)

	default:
		methodNotAllowed(w)
	}
}

// HandleUpcoming handles GET /api/subscriptions/upcoming
func (h *SubscriptionHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	subs, err := h.subscriptions.Upcoming(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "upcoming subscriptions", err)
		return
	}
	writeSubscriptions(w, subs)
}

// HandleSubscriptionByID handles DELETE /api/subscriptions/{id}
func (h *SubscriptionHandler) HandleSubscriptionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	if err := h.subscriptions.DeleteSubscription(r.Context(), id, userID); err != nil {
		writeServiceError(w, r, "delete subscription", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeSubscriptions(w http.ResponseWriter, subs []*subscription.Subscription) {
	if subs == nil {
		subs = []*subscription.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}
