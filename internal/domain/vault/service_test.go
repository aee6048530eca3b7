package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryStore is an in-memory Repository whose transactions roll back on error.
type memoryStore struct {
	vaults  map[uuid.UUID]Vault
	wallets map[uuid.UUID]decimal.Decimal
	points  map[uuid.UUID]int

	UpdateFunc func(ctx context.Context, v *Vault) error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		vaults:  map[uuid.UUID]Vault{},
		wallets: map[uuid.UUID]decimal.Decimal{},
		points:  map[uuid.UUID]int{},
	}
}

func (m *memoryStore) Create(ctx context.Context, v *Vault) (*Vault, error) {
	m.vaults[v.ID] = *v
	out := *v
	return &out, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Vault, error) {
	v, ok := m.vaults[id]
	if !ok {
		return nil, ErrVaultNotFound
	}
	return &v, nil
}

func (m *memoryStore) ListByUserID(ctx context.Context, userID uuid.UUID, includeBroken bool) ([]*Vault, error) {
	var out []*Vault
	for _, v := range m.vaults {
		if v.UserID != userID || (v.IsBroken && !includeBroken) {
			continue
		}
		v := v
		out = append(out, &v)
	}
	return out, nil
}

func (m *memoryStore) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	vs, _ := m.ListByUserID(ctx, userID, false)
	return len(vs), nil
}

func (m *memoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memoryTx{
		store:   m,
		vaults:  map[uuid.UUID]Vault{},
		wallets: map[uuid.UUID]decimal.Decimal{},
		points:  map[uuid.UUID]int{},
	}
	if err := fn(tx); err != nil {
		return err
	}
	for id, v := range tx.vaults {
		m.vaults[id] = v
	}
	for id, w := range tx.wallets {
		m.wallets[id] = w
	}
	for id, p := range tx.points {
		m.points[id] += p
	}
	return nil
}

type memoryTx struct {
	store   *memoryStore
	vaults  map[uuid.UUID]Vault
	wallets map[uuid.UUID]decimal.Decimal
	points  map[uuid.UUID]int
}

func (t *memoryTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*Vault, error) {
	return t.store.GetByID(ctx, id)
}

func (t *memoryTx) GetWalletForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return t.store.wallets[userID], nil
}

func (t *memoryTx) Update(ctx context.Context, v *Vault) error {
	if t.store.UpdateFunc != nil {
		if err := t.store.UpdateFunc(ctx, v); err != nil {
			return err
		}
	}
	t.vaults[v.ID] = *v
	return nil
}

func (t *memoryTx) SetWallet(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	t.wallets[userID] = balance
	return nil
}

func (t *memoryTx) AddBonusPoints(ctx context.Context, userID uuid.UUID, points int) error {
	t.points[userID] += points
	return nil
}

type fixedIncome struct {
	income decimal.Decimal
	err    error
}

func (f fixedIncome) MonthlyIncome(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return f.income, f.err
}

type recordingNotifier struct {
	titles     []string
	categories []string
}

func (r *recordingNotifier) SendToUser(ctx context.Context, userID uuid.UUID, title, body, category string, data map[string]string) error {
	r.titles = append(r.titles, title)
	r.categories = append(r.categories, category)
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.calls++
	return nil
}

func TestService_VaultLifecycle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newMemoryStore()
	store.wallets[userID] = d("1000")

	svc := NewService(store, fixedIncome{income: d("10000")}, DefaultRules())
	day := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	cache := &countingInvalidator{}
	svc.SetCacheInvalidator(cache)

	v, err := svc.CreateVault(ctx, CreateParams{
		UserID:          userID,
		GoalName:        "Headphones",
		TargetAmount:    d("2000"),
		DailySaveAmount: d("100"),
	})
	if err != nil {
		t.Fatalf("CreateVault() error: %v", err)
	}

	var totalBonus int
	for i := 1; i <= 7; i++ {
		out, err := svc.SaveToVault(ctx, v.ID, userID, nil)
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		totalBonus += out.BonusPoints
		day = day.AddDate(0, 0, 1)
	}

	got := store.vaults[v.ID]
	if !got.SavedAmount.Equal(d("700")) {
		t.Errorf("SavedAmount = %s, want 700", got.SavedAmount)
	}
	if got.StreakDays != 7 {
		t.Errorf("StreakDays = %d, want 7", got.StreakDays)
	}
	if !store.wallets[userID].Equal(d("300")) {
		t.Errorf("wallet = %s, want 300", store.wallets[userID])
	}
	if totalBonus != 10 || store.points[userID] != 10 {
		t.Errorf("bonus = %d, stored points = %d, want 10", totalBonus, store.points[userID])
	}

	broken, err := svc.BreakVault(ctx, v.ID, userID)
	if err != nil {
		t.Fatalf("BreakVault() error: %v", err)
	}
	if !broken.Refund.Equal(d("700")) {
		t.Errorf("Refund = %s, want 700", broken.Refund)
	}
	if !store.wallets[userID].Equal(d("1000")) {
		t.Errorf("wallet after break = %s, want 1000", store.wallets[userID])
	}
	if store.points[userID] != 10 {
		t.Errorf("points after break = %d, want 10 kept", store.points[userID])
	}

	if _, err := svc.BreakVault(ctx, v.ID, userID); !errors.Is(err, ErrAlreadyBroken) {
		t.Errorf("second break error = %v, want ErrAlreadyBroken", err)
	}
	if _, err := svc.SaveToVault(ctx, v.ID, userID, nil); !errors.Is(err, ErrVaultBroken) {
		t.Errorf("save to broken vault error = %v, want ErrVaultBroken", err)
	}

	if cache.calls != 9 {
		t.Errorf("cache invalidations = %d, want 9", cache.calls)
	}
}

func TestService_CreateVault_GoalTooLarge(t *testing.T) {
	svc := NewService(newMemoryStore(), fixedIncome{income: d("10000")}, DefaultRules())

	_, err := svc.CreateVault(context.Background(), CreateParams{
		UserID:          uuid.New(),
		GoalName:        "Car",
		TargetAmount:    d("2100"),
		DailySaveAmount: d("100"),
	})
	if !errors.Is(err, ErrGoalTooLarge) {
		t.Errorf("CreateVault() error = %v, want ErrGoalTooLarge", err)
	}
}

func TestService_CreateVault_IncomeError(t *testing.T) {
	svc := NewService(newMemoryStore(), fixedIncome{err: errors.New("db down")}, DefaultRules())

	_, err := svc.CreateVault(context.Background(), CreateParams{
		UserID:          uuid.New(),
		GoalName:        "Car",
		TargetAmount:    d("100"),
		DailySaveAmount: d("10"),
	})
	if err == nil {
		t.Fatal("expected error when income lookup fails")
	}
}

func TestService_SaveToVault_FailuresLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newFixture := func() (*memoryStore, *Service, uuid.UUID) {
		store := newMemoryStore()
		store.wallets[userID] = d("50")
		id := uuid.New()
		store.vaults[id] = Vault{
			ID:              id,
			UserID:          userID,
			GoalName:        "Shoes",
			TargetAmount:    d("1000"),
			SavedAmount:     d("200"),
			DailySaveAmount: d("100"),
			StreakDays:      2,
			IsLocked:        true,
		}
		return store, NewService(store, fixedIncome{income: d("10000")}, DefaultRules()), id
	}

	t.Run("insufficient funds", func(t *testing.T) {
		store, svc, id := newFixture()
		if _, err := svc.SaveToVault(ctx, id, userID, nil); !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("error = %v, want ErrInsufficientFunds", err)
		}
		v := store.vaults[id]
		if !v.SavedAmount.Equal(d("200")) || v.StreakDays != 2 || !store.wallets[userID].Equal(d("50")) {
			t.Errorf("state changed: saved=%s streak=%d wallet=%s", v.SavedAmount, v.StreakDays, store.wallets[userID])
		}
	})

	t.Run("storage failure rolls back", func(t *testing.T) {
		store, svc, id := newFixture()
		store.UpdateFunc = func(ctx context.Context, v *Vault) error {
			return errors.New("write failed")
		}
		amount := d("10")
		if _, err := svc.SaveToVault(ctx, id, userID, &amount); err == nil {
			t.Fatal("expected error")
		}
		if !store.wallets[userID].Equal(d("50")) {
			t.Errorf("wallet = %s, want 50", store.wallets[userID])
		}
	})

	t.Run("other user's vault", func(t *testing.T) {
		_, svc, id := newFixture()
		amount := d("10")
		if _, err := svc.SaveToVault(ctx, id, uuid.New(), &amount); !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown vault", func(t *testing.T) {
		_, svc, _ := newFixture()
		if _, err := svc.SaveToVault(ctx, uuid.New(), userID, nil); !errors.Is(err, ErrVaultNotFound) {
			t.Errorf("error = %v, want ErrVaultNotFound", err)
		}
	})
}

func TestService_SaveToVault_Notifications(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := newMemoryStore()
	store.wallets[userID] = d("500")
	id := uuid.New()
	store.vaults[id] = Vault{
		ID:              id,
		UserID:          userID,
		GoalName:        "Concert",
		Emoji:           "🎸",
		TargetAmount:    d("700"),
		SavedAmount:     d("600"),
		DailySaveAmount: d("100"),
		StreakDays:      6,
		IsLocked:        true,
	}

	svc := NewService(store, fixedIncome{income: d("10000")}, DefaultRules())
	n := &recordingNotifier{}
	svc.SetNotifier(n)

	out, err := svc.SaveToVault(ctx, id, userID, nil)
	if err != nil {
		t.Fatalf("SaveToVault() error: %v", err)
	}
	if !out.Completed || out.BonusPoints != 10 {
		t.Fatalf("outcome = %+v, want completed with 10 bonus points", out)
	}
	if len(n.categories) != 2 || n.categories[0] != "vaults" || n.categories[1] != "rewards" {
		t.Errorf("notification categories = %v, want [vaults rewards]", n.categories)
	}
}

func TestService_GetVault_Ownership(t *testing.T) {
	store := newMemoryStore()
	owner := uuid.New()
	id := uuid.New()
	store.vaults[id] = Vault{ID: id, UserID: owner}
	svc := NewService(store, fixedIncome{}, DefaultRules())

	if _, err := svc.GetVault(context.Background(), id, owner); err != nil {
		t.Errorf("owner GetVault() error: %v", err)
	}
	if _, err := svc.GetVault(context.Background(), id, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger GetVault() error = %v, want ErrForbidden", err)
	}
}
