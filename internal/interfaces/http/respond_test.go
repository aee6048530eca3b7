package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pennyverse/internal/domain/goal"
	"pennyverse/internal/domain/notification"
	"pennyverse/internal/domain/profile"
	"pennyverse/internal/domain/subscription"
	"pennyverse/internal/domain/transaction"
	"pennyverse/internal/domain/vault"
	"pennyverse/internal/shared/middleware"
)

var testUserID = uuid.MustParse("5b8f1a52-3c3e-4c7a-9d7e-2f0a1b2c3d4e")

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, testUserID)
	return req.WithContext(ctx)
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{vault.ErrGoalTooLarge, http.StatusUnprocessableEntity},
		{vault.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{profile.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{vault.ErrAlreadyBroken, http.StatusConflict},
		{vault.ErrVaultBroken, http.StatusConflict},
		{vault.ErrVaultCompleted, http.StatusConflict},
		{vault.ErrVaultNotFound, http.StatusNotFound},
		{goal.ErrGoalNotFound, http.StatusNotFound},
		{subscription.ErrSubscriptionNotFound, http.StatusNotFound},
		{transaction.ErrTransactionNotFound, http.StatusNotFound},
		{profile.ErrProfileNotFound, http.StatusNotFound},
		{notification.ErrNotificationNotFound, http.StatusNotFound},
		{vault.ErrForbidden, http.StatusForbidden},
		{goal.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: amount must be greater than zero", transaction.ErrInvalidInput), http.StatusBadRequest},
		{goal.ErrInvalidAmount, http.StatusBadRequest},
		{profile.ErrInvalidIncome, http.StatusBadRequest},
		{notification.ErrInvalidDeviceType, http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteServiceError_HidesInternalErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/vaults", nil)

	writeServiceError(rr, req, "list vaults", errors.New("pq: password authentication failed"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Errorf("body leaks internal error: %s", rr.Body.String())
	}
}

func TestDecodeBody(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required,max=5"`
		Kind string `json:"kind" validate:"omitempty,oneof=a b"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"abc","kind":"a"}`, ""},
		{"empty body", ``, "request body is required"},
		{"malformed", `{"name":`, "invalid request body"},
		{"unknown field", `{"name":"abc","extra":1}`, "invalid request body"},
		{"missing required", `{"kind":"a"}`, "name is required"},
		{"too long", `{"name":"abcdefg"}`, "name must be at most 5 characters"},
		{"bad enum", `{"name":"abc","kind":"c"}`, "kind must be one of: a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := decodeBody(httptest.NewRecorder(), req, &dst)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-06-30", "2024-06-30", false},
		{"2024-06-30T10:00:00Z", "2024-06-30", false},
		{"30/06/2024", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got.Format("2006-01-02") != tt.want {
				t.Errorf("parseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/vaults/"+id.String(), nil)
		req.SetPathValue("id", id.String())

		got, ok := pathID(httptest.NewRecorder(), req)
		if !ok || got != id {
			t.Errorf("pathID() = %v, %v; want %v, true", got, ok, id)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vaults/nope", nil)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()

		if _, ok := pathID(rr, req); ok {
			t.Fatal("pathID() ok = true for invalid id")
		}
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestCurrentUser_Unauthorized(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rr := httptest.NewRecorder()

	if _, ok := currentUser(rr, req); ok {
		t.Fatal("currentUser() ok = true without auth context")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}
