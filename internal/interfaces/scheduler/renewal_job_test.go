package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pennyverse/internal/domain/subscription"
)

type MockRenewalChecker struct {
	CheckRenewalsFunc          func(ctx context.Context, userID uuid.UUID, reminderDays int) (*subscription.RenewalResult, error)
	UsersWithSubscriptionsFunc func(ctx context.Context) ([]uuid.UUID, error)
}

func (m *MockRenewalChecker) CheckRenewals(ctx context.Context, userID uuid.UUID, reminderDays int) (*subscription.RenewalResult, error) {
	return m.CheckRenewalsFunc(ctx, userID, reminderDays)
}

func (m *MockRenewalChecker) UsersWithSubscriptions(ctx context.Context) ([]uuid.UUID, error) {
	return m.UsersWithSubscriptionsFunc(ctx)
}

func TestRenewalJobs(t *testing.T) {
	users := []uuid.UUID{uuid.New(), uuid.New()}
	var checked []uuid.UUID

	checker := &MockRenewalChecker{
		UsersWithSubscriptionsFunc: func(ctx context.Context) ([]uuid.UUID, error) { return users, nil },
		CheckRenewalsFunc: func(ctx context.Context, userID uuid.UUID, reminderDays int) (*subscription.RenewalResult, error) {
			if reminderDays != 3 {
				t.Errorf("reminderDays = %d, want 3", reminderDays)
			}
			checked = append(checked, userID)
			return &subscription.RenewalResult{Advanced: 1}, nil
		},
	}

	jobs, err := RenewalJobs(checker, 3)(context.Background())
	if err != nil {
		t.Fatalf("provider error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].UserID() != users[0].String() {
		t.Errorf("UserID() = %s, want %s", jobs[0].UserID(), users[0])
	}

	for _, j := range jobs {
		if err := j.Execute(context.Background()); err != nil {
			t.Errorf("Execute() error = %v", err)
		}
	}
	if len(checked) != 2 || checked[1] != users[1] {
		t.Errorf("checked = %v", checked)
	}
}

func TestRenewalJob_Errors(t *testing.T) {
	checker := &MockRenewalChecker{
		UsersWithSubscriptionsFunc: func(ctx context.Context) ([]uuid.UUID, error) { return nil, errors.New("db down") },
		CheckRenewalsFunc: func(ctx context.Context, userID uuid.UUID, reminderDays int) (*subscription.RenewalResult, error) {
			return nil, errors.New("db down")
		},
	}

	if _, err := RenewalJobs(checker, 3)(context.Background()); err == nil {
		t.Error("provider expected error")
	}
	if err := NewRenewalJob(uuid.New(), checker, 3).Execute(context.Background()); err == nil {
		t.Error("Execute() expected error")
	}
}
