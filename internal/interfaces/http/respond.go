package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pennyverse/internal/domain/goal"
	"pennyverse/internal/domain/notification"
	"pennyverse/internal/domain/profile"
	"pennyverse/internal/domain/subscription"
	"pennyverse/internal/domain/transaction"
	"pennyverse/internal/domain/vault"
	"pennyverse/internal/shared/logger"
	"pennyverse/internal/shared/middleware"
)

const maxBodySize = 1 << 20 // 1 MiB

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeBody reads a JSON body into dst and runs its validate tags.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// statusFor maps domain errors onto HTTP statuses. Anything unrecognised
// is a 500 and its message is not exposed.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vault.ErrGoalTooLarge),
		errors.Is(err, vault.ErrInsufficientFunds),
		errors.Is(err, profile.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity

	case errors.Is(err, vault.ErrAlreadyBroken),
		errors.Is(err, vault.ErrVaultBroken),
		errors.Is(err, vault.ErrVaultCompleted):
		return http.StatusConflict

	case errors.Is(err, vault.ErrVaultNotFound),
		errors.Is(err, goal.ErrGoalNotFound),
		errors.Is(err, subscription.ErrSubscriptionNotFound),
		errors.Is(err, transaction.ErrTransactionNotFound),
		errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		return http.StatusNotFound

	case errors.Is(err, vault.ErrForbidden),
		errors.Is(err, goal.ErrForbidden),
		errors.Is(err, subscription.ErrForbidden),
		errors.Is(err, transaction.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, vault.ErrInvalidInput),
		errors.Is(err, goal.ErrInvalidInput),
		errors.Is(err, goal.ErrInvalidAmount),
		errors.Is(err, subscription.ErrInvalidInput),
		errors.Is(err, transaction.ErrInvalidInput),
		errors.Is(err, profile.ErrInvalidIncome),
		errors.Is(err, profile.ErrInvalidAmount),
		errors.Is(err, notification.ErrInvalidCategory),
		errors.Is(err, notification.ErrInvalidDeviceType),
		errors.Is(err, notification.ErrInvalidToken):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeServiceError logs server-side failures and writes the mapped error.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithField("request_id", middleware.RequestID(r.Context())).Errorf("%s: %v", op, err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
