package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"pennyverse/internal/shared/auth"
)

func TestAuth(t *testing.T) {
	jwt := auth.NewJWT("test-secret", "")
	userID := uuid.New()
	validToken, _ := jwt.Generate(userID, "test@example.com")
	otherSecret, _ := auth.NewJWT("other-secret", "").Generate(userID, "")

	tests := []struct {
		name           string
		setupRequest   func(r *http.Request)
		expectedStatus int
		expectedUser   bool
	}{
		{
			name: "Valid Token in Cookie",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: validToken})
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name: "Valid Token in Header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+validToken)
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name: "Lowercase scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer "+validToken)
			},
			expectedStatus: http.StatusOK,
			expectedUser:   true,
		},
		{
			name:           "No Token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic "+validToken)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid Token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer invalid")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Signed with another secret",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+otherSecret)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok := UserIDFromContext(r.Context())
				if !ok && tt.expectedUser {
					t.Error("Expected user ID in context, got none")
				}
				if ok && !tt.expectedUser {
					t.Error("Unexpected user ID in context")
				}
				if ok && got != userID {
					t.Errorf("Expected user ID %s, got %s", userID, got)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(jwt)(nextHandler)

			req := httptest.NewRequest("GET", "/", nil)
			tt.setupRequest(req)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if rr.Code == http.StatusUnauthorized && rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}
