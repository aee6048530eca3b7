package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/goal"
)

// MockGoalService implements GoalService for testing
type MockGoalService struct {
	CreateGoalFunc func(ctx context.Context, params goal.CreateParams) (*goal.View, error)
	GetGoalFunc    func(ctx context.Context, id, userID uuid.UUID) (*goal.View, error)
	ListGoalsFunc  func(ctx context.Context, userID uuid.UUID, status goal.Status) ([]*goal.View, error)
	AddToGoalFunc  func(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*goal.View, error)
	DeleteGoalFunc func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *MockGoalService) CreateGoal(ctx context.Context, params goal.CreateParams) (*goal.View, error) {
	if m.CreateGoalFunc != nil {
		return m.CreateGoalFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockGoalService) GetGoal(ctx context.Context, id, userID uuid.UUID) (*goal.View, error) {
	if m.GetGoalFunc != nil {
		return m.GetGoalFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockGoalService) ListGoals(ctx context.Context, userID uuid.UUID, status goal.Status) ([]*goal.View, error) {
	if m.ListGoalsFunc != nil {
		return m.ListGoalsFunc(ctx, userID, status)
	}
	return nil, nil
}

func (m *MockGoalService) AddToGoal(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*goal.View, error) {
	if m.AddToGoalFunc != nil {
		return m.AddToGoalFunc(ctx, id, userID, amount)
	}
	return nil, nil
}

func (m *MockGoalService) DeleteGoal(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteGoalFunc != nil {
		return m.DeleteGoalFunc(ctx, id, userID)
	}
	return nil
}

func TestHandleGoals_List(t *testing.T) {
	tests := []struct {
		query          string
		wantStatus     goal.Status
		expectedStatus int
	}{
		{"", goal.StatusActive, http.StatusOK},
		{"?status=active", goal.StatusActive, http.StatusOK},
		{"?status=all", goal.StatusAll, http.StatusOK},
		{"?status=done", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &MockGoalService{
				ListGoalsFunc: func(ctx context.Context, userID uuid.UUID, status goal.Status) ([]*goal.View, error) {
					if status != tt.wantStatus {
						t.Errorf("status = %q, want %q", status, tt.wantStatus)
					}
					return nil, nil
				},
			}

			rr := httptest.NewRecorder()
			NewGoalHandler(svc).HandleGoals(rr, authedRequest(http.MethodGet, "/api/goals"+tt.query, ""))

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleGoals_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Success", `{"title":"Trip to Goa","targetAmount":"15000","deadline":"2030-12-31","emoji":"🏖️"}`, http.StatusCreated},
		{"RFC3339 deadline", `{"title":"Laptop","targetAmount":"60000","deadline":"2030-01-15T00:00:00Z"}`, http.StatusCreated},
		{"Bad deadline", `{"title":"Laptop","targetAmount":"60000","deadline":"next year"}`, http.StatusBadRequest},
		{"Missing title", `{"targetAmount":"60000","deadline":"2030-01-15"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockGoalService{
				CreateGoalFunc: func(ctx context.Context, params goal.CreateParams) (*goal.View, error) {
					if params.Deadline.Year() != 2030 {
						t.Errorf("deadline = %v, want a 2030 date", params.Deadline)
					}
					return &goal.View{Goal: &goal.Goal{ID: uuid.New(), Title: params.Title, Deadline: params.Deadline}}, nil
				},
			}

			rr := httptest.NewRecorder()
			NewGoalHandler(svc).HandleGoals(rr, authedRequest(http.MethodPost, "/api/goals", tt.body))

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleContributions(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
	}{
		{"Success", `{"amount":"500"}`, nil, http.StatusOK},
		{"Non-positive", `{"amount":"0"}`, goal.ErrInvalidAmount, http.StatusBadRequest},
		{"Not found", `{"amount":"10"}`, goal.ErrGoalNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockGoalService{
				AddToGoalFunc: func(ctx context.Context, gotID, userID uuid.UUID, amount decimal.Decimal) (*goal.View, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &goal.View{
						Goal:     &goal.Goal{ID: gotID, CurrentAmount: amount, TargetAmount: decimal.NewFromInt(1000), Deadline: time.Now().AddDate(0, 1, 0)},
						Progress: 50,
					}, nil
				},
			}

			req := authedRequest(http.MethodPost, "/api/goals/"+id.String()+"/contributions", tt.body)
			req.SetPathValue("id", id.String())
			rr := httptest.NewRecorder()
			NewGoalHandler(svc).HandleContributions(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleGoalByID_Delete(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	svc := &MockGoalService{
		DeleteGoalFunc: func(ctx context.Context, gotID, userID uuid.UUID) error {
			deleted = gotID
			return nil
		},
	}

	req := authedRequest(http.MethodDelete, "/api/goals/"+id.String(), "")
	req.SetPathValue("id", id.String())
	rr := httptest.NewRecorder()
	NewGoalHandler(svc).HandleGoalByID(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if deleted != id {
		t.Errorf("deleted = %v, want %v", deleted, id)
	}
}
