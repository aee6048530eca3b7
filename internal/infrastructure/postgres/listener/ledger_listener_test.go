package listener

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeInvalidator struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, userID uuid.UUID) error {
	f.calls = append(f.calls, userID)
	return f.err
}

func TestParseLedgerChange(t *testing.T) {
	userID := uuid.MustParse("6f1c2a4e-8d1b-4c59-9a63-2f0f3e1b7c11")

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"user_id":"6f1c2a4e-8d1b-4c59-9a63-2f0f3e1b7c11","table":"transactions"}`, false},
		{"missing user", `{"table":"transactions"}`, true},
		{"bad json", `not json`, true},
		{"bad uuid", `{"user_id":"42","table":"rewards"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := ParseLedgerChange(tt.payload)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if change.UserID != userID {
				t.Errorf("UserID = %s, want %s", change.UserID, userID)
			}
			if change.Table != "transactions" {
				t.Errorf("Table = %q, want transactions", change.Table)
			}
		})
	}
}

func TestLedgerListener_Handle(t *testing.T) {
	cache := &fakeInvalidator{}
	l := NewLedgerListener("", cache)

	userID := uuid.New()
	payload := `{"user_id":"` + userID.String() + `","table":"goal_vaults"}`

	if err := l.handle(context.Background(), payload); err != nil {
		t.Fatalf("handle() error = %v", err)
	}
	if len(cache.calls) != 1 || cache.calls[0] != userID {
		t.Errorf("Invalidate calls = %v, want [%s]", cache.calls, userID)
	}
}

func TestLedgerListener_HandleErrors(t *testing.T) {
	t.Run("invalid payload skips cache", func(t *testing.T) {
		cache := &fakeInvalidator{}
		l := NewLedgerListener("", cache)

		if err := l.handle(context.Background(), "{}"); err == nil {
			t.Fatal("expected error")
		}
		if len(cache.calls) != 0 {
			t.Errorf("Invalidate called %d times, want 0", len(cache.calls))
		}
	})

	t.Run("cache failure is reported", func(t *testing.T) {
		cache := &fakeInvalidator{err: errors.New("redis down")}
		l := NewLedgerListener("", cache)

		err := l.handle(context.Background(), `{"user_id":"`+uuid.NewString()+`","table":"profiles"}`)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
