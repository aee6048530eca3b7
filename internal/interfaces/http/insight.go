package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"pennyverse/internal/domain/insight"
	"pennyverse/internal/domain/reward"
)

type InsightService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*insight.Dashboard, error)
	Insights(ctx context.Context, userID uuid.UUID) (*insight.Report, error)
}

type RewardService interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (*reward.Summary, error)
}

// InsightHandler serves the read-only summary screens.
type InsightHandler struct {
	insights InsightService
	rewards  RewardService
}

func NewInsightHandler(insights InsightService, rewards RewardService) *InsightHandler {
	return &InsightHandler{insights: insights, rewards: rewards}
}

// HandleDashboard handles GET /api/dashboard
func (h *InsightHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, "dashboard", func(ctx context.Context, userID uuid.UUID) (any, error) {
		return h.insights.Dashboard(ctx, userID)
	})
}

// HandleInsights handles GET /api/insights
func (h *InsightHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, "insights", func(ctx context.Context, userID uuid.UUID) (any, error) {
		return h.insights.Insights(ctx, userID)
	})
}

// HandleRewards handles GET /api/rewards
func (h *InsightHandler) HandleRewards(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, "rewards", func(ctx context.Context, userID uuid.UUID) (any, error) {
		return h.rewards.GetSummary(ctx, userID)
	})
}

func (h *InsightHandler) get(w http.ResponseWriter, r *http.Request, op string, fetch func(context.Context, uuid.UUID) (any, error)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	v, err := fetch(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
