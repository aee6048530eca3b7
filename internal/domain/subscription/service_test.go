package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	CreateFunc            func(ctx context.Context, s *Subscription) (*Subscription, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*Subscription, error)
	ListByUserIDFunc      func(ctx context.Context, userID uuid.UUID) ([]*Subscription, error)
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	UpdateRenewalDateFunc func(ctx context.Context, id uuid.UUID, renewal time.Time) error
	ListUserIDsFunc       func(ctx context.Context) ([]uuid.UUID, error)
}

func (m *MockRepository) Create(ctx context.Context, s *Subscription) (*Subscription, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return s, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrSubscriptionNotFound
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) UpdateRenewalDate(ctx context.Context, id uuid.UUID, renewal time.Time) error {
	if m.UpdateRenewalDateFunc != nil {
		return m.UpdateRenewalDateFunc(ctx, id, renewal)
	}
	return nil
}

func (m *MockRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	if m.ListUserIDsFunc != nil {
		return m.ListUserIDsFunc(ctx)
	}
	return nil, nil
}

type capturingNotifier struct {
	titles []string
	bodies []string
}

func (c *capturingNotifier) SendToUser(ctx context.Context, userID uuid.UUID, title, body, category string, data map[string]string) error {
	c.titles = append(c.titles, title)
	c.bodies = append(c.bodies, body)
	return nil
}

func TestSubscription_IsUpcoming(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		renewal time.Time
		want    bool
	}{
		{"later today", now.Add(3 * time.Hour), true},
		{"earlier today", now.Add(-time.Hour), true},
		{"midnight today", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), true},
		{"in seven days", now.AddDate(0, 0, 7), true},
		{"end of seventh day", time.Date(2025, 7, 8, 23, 59, 0, 0, time.UTC), true},
		{"start of eighth day", now.AddDate(0, 0, 7).Add(12 * time.Hour), false},
		{"yesterday", now.AddDate(0, 0, -1), false},
		{"just before midnight", time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subscription{RenewalDate: tt.renewal}
			if got := s.IsUpcoming(now); got != tt.want {
				t.Errorf("IsUpcoming() = %v, want %v (days %d)", got, tt.want, s.DaysUntilRenewal(now))
			}
		})
	}
}

func TestNextRenewal(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		renewal time.Time
		want    time.Time
	}{
		{time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := NextRenewal(tt.renewal, now); !got.Equal(tt.want) {
			t.Errorf("NextRenewal(%s) = %s, want %s", tt.renewal.Format(time.DateOnly), got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
		}
	}
}

func TestSubscription_DaysUntilRenewal(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		renewal time.Time
		now     time.Time
		want    int
	}{
		{"due today at midnight", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), now, 0},
		{"due tomorrow at midnight", time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), now, 1},
		{"due yesterday late", time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC), now, -1},
		{"read in local day", time.Date(2025, 7, 1, 0, 0, 0, 0, ist), time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC).In(ist), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subscription{RenewalDate: tt.renewal}
			if got := s.DaysUntilRenewal(tt.now); got != tt.want {
				t.Errorf("DaysUntilRenewal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestService_CreateSubscription_PinsRenewalDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	svc := NewService(&MockRepository{}, ist)

	sub, err := svc.CreateSubscription(context.Background(), CreateParams{
		UserID:      uuid.New(),
		Name:        "Netflix",
		Cost:        decimal.NewFromInt(199),
		RenewalDate: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateSubscription() error: %v", err)
	}
	if want := time.Date(2025, 7, 10, 0, 0, 0, 0, ist); !sub.RenewalDate.Equal(want) {
		t.Errorf("RenewalDate = %v, want %v", sub.RenewalDate, want)
	}
}

func TestService_CreateSubscription_Validation(t *testing.T) {
	svc := NewService(&MockRepository{}, time.UTC)
	_, err := svc.CreateSubscription(context.Background(), CreateParams{
		UserID:      uuid.New(),
		Name:        "Netflix",
		Cost:        decimal.Zero,
		RenewalDate: time.Now(),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("CreateSubscription() error = %v, want ErrInvalidInput", err)
	}
}

func TestService_Upcoming(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
			return []*Subscription{
				{Name: "Spotify", RenewalDate: now.AddDate(0, 0, 2)},
				{Name: "Gym", RenewalDate: now.AddDate(0, 0, 20)},
				{Name: "Cloud", RenewalDate: now.AddDate(0, 0, -3)},
			}, nil
		},
	}
	svc := NewService(repo, time.UTC)
	svc.now = func() time.Time { return now }

	subs, err := svc.Upcoming(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Upcoming() error: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "Spotify" {
		t.Errorf("Upcoming() = %+v, want only Spotify", subs)
	}
}

func TestService_CheckRenewals(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	lapsedID := uuid.New()
	advanced := map[uuid.UUID]time.Time{}

	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
			return []*Subscription{
				{ID: uuid.New(), Name: "Spotify", Cost: decimal.NewFromInt(119), RenewalDate: now.AddDate(0, 0, 2)},
				{ID: uuid.New(), Name: "Gym", Cost: decimal.NewFromInt(999), RenewalDate: now.AddDate(0, 0, 20)},
				{ID: lapsedID, Name: "Cloud", Cost: decimal.NewFromInt(75), RenewalDate: now.AddDate(0, -1, 1)},
			}, nil
		},
		UpdateRenewalDateFunc: func(ctx context.Context, id uuid.UUID, renewal time.Time) error {
			advanced[id] = renewal
			return nil
		},
	}
	notifier := &capturingNotifier{}
	svc := NewService(repo, time.UTC)
	svc.SetNotifier(notifier)
	svc.now = func() time.Time { return now }

	res, err := svc.CheckRenewals(context.Background(), uuid.New(), 3)
	if err != nil {
		t.Fatalf("CheckRenewals() error: %v", err)
	}
	if res.Advanced != 1 {
		t.Errorf("Advanced = %d, want 1", res.Advanced)
	}
	if want := now.AddDate(0, 0, 1); !advanced[lapsedID].Equal(want) {
		t.Errorf("lapsed renewal moved to %v, want %v", advanced[lapsedID], want)
	}
	if res.Reminded != 2 {
		t.Errorf("Reminded = %d, want 2 (%v)", res.Reminded, notifier.titles)
	}
}

func TestService_CheckRenewals_TodayAndTomorrow(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
			return []*Subscription{
				{ID: uuid.New(), Name: "Netflix", Cost: decimal.NewFromInt(199), RenewalDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
				{ID: uuid.New(), Name: "Spotify", Cost: decimal.NewFromInt(119), RenewalDate: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
		UpdateRenewalDateFunc: func(ctx context.Context, id uuid.UUID, renewal time.Time) error {
			t.Errorf("renewal %s advanced to %s, want untouched", id, renewal.Format(time.DateOnly))
			return nil
		},
	}
	notifier := &capturingNotifier{}
	svc := NewService(repo, time.UTC)
	svc.SetNotifier(notifier)
	svc.now = func() time.Time { return now }

	res, err := svc.CheckRenewals(context.Background(), uuid.New(), 3)
	if err != nil {
		t.Fatalf("CheckRenewals() error: %v", err)
	}
	if res.Advanced != 0 || res.Reminded != 2 {
		t.Fatalf("result = %+v, want 0 advanced and 2 reminded", res)
	}

	want := []string{
		"199.00 PP will be charged today.",
		"119.00 PP will be charged on Jul 2.",
	}
	for i, body := range want {
		if notifier.bodies[i] != body {
			t.Errorf("reminder %d body = %q, want %q", i, notifier.bodies[i], body)
		}
	}
}

func TestService_CheckRenewals_UpdateError(t *testing.T) {
	now := time.Now()
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
			return []*Subscription{{ID: uuid.New(), RenewalDate: now.AddDate(0, -2, 0)}}, nil
		},
		UpdateRenewalDateFunc: func(ctx context.Context, id uuid.UUID, renewal time.Time) error {
			return errors.New("db down")
		},
	}
	svc := NewService(repo, time.UTC)

	if _, err := svc.CheckRenewals(context.Background(), uuid.New(), 3); err == nil {
		t.Error("expected error when renewal update fails")
	}
}

func TestService_DeleteSubscription_Forbidden(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*Subscription, error) {
			return &Subscription{ID: id, UserID: uuid.New()}, nil
		},
		DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
			t.Fatal("Delete should not be called")
			return nil
		},
	}
	svc := NewService(repo, time.UTC)

	if err := svc.DeleteSubscription(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteSubscription() error = %v, want ErrForbidden", err)
	}
}
