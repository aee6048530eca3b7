package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/goal"
)

type GoalService interface {
	CreateGoal(ctx context.Context, params goal.CreateParams) (*goal.View, error)
	GetGoal(ctx context.Context, id, userID uuid.UUID) (*goal.View, error)
	ListGoals(ctx context.Context, userID uuid.UUID, status goal.Status) ([]*goal.View, error)
	AddToGoal(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*goal.View, error)
	DeleteGoal(ctx context.Context, id, userID uuid.UUID) error
}

type GoalHandler struct {
	goals GoalService
}

func NewGoalHandler(goals GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

type CreateGoalRequest struct {
	Title        string          `json:"title" validate:"required,max=128"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline" validate:"required"`
	Emoji        string          `json:"emoji" validate:"max=16"`
}

type ContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// HandleGoals handles GET (list, ?status=active|all) and POST /api/goals
func (h *GoalHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		status, err := goal.ParseStatus(r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		goals, err := h.goals.ListGoals(r.Context(), userID, status)
		if err != nil {
			writeServiceError(w, r, "list goals", err)
			return
		}
		if goals == nil {
			goals = []*goal.View{}
		}
		writeJSON(w, http.StatusOK, goals)

	case http.MethodPost:
		var req CreateGoalRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		g, err := h.goals.CreateGoal(r.Context(), goal.CreateParams{
			UserID:       userID,
			Title:        req.Title,
			TargetAmount: req.TargetAmount,
			Deadline:     deadline,
			Emoji:        req.Emoji,
		})
		if err != nil {
			writeServiceError(w, r, "create goal", err)
			return
		}
		writeJSON(w, http.StatusCreated, g)

	default:
		methodNotAllowed(w)
	}
}

// HandleGoalByID handles GET and DELETE /api/goals/{id}
func (h *GoalHandler) HandleGoalByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		g, err := h.goals.GetGoal(r.Context(), id, userID)
		if err != nil {
			writeServiceError(w, r, "get goal", err)
			return
		}
		writeJSON(w, http.StatusOK, g)

	case http.MethodDelete:
		if err := h.goals.DeleteGoal(r.Context(), id, userID); err != nil {
			writeServiceError(w, r, "delete goal", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// HandleContributions handles POST /api/goals/{id}/contributions
func (h *GoalHandler) HandleContributions(w http.ResponseWriter, r *http.Request) {
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

	var req ContributionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.goals.AddToGoal(r.Context(), id, userID, req.Amount)
	if err != nil {
		writeServiceError(w, r, "add to goal", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
