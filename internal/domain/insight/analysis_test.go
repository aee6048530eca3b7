package insight

import (
	"testing"
	"time"

	"pennyverse/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(amount string, at time.Time) *transaction.Transaction {
	return &transaction.Transaction{Amount: d(amount), Type: transaction.TypeExpense, CreatedAt: at}
}

func TestNetMessage(t *testing.T) {
	tests := []struct {
		net  string
		want string
	}{
		{"1500.5", "You saved 1500.50 PP this period! 🎉"},
		{"0", "You spent 0.00 PP more than you earned."},
		{"-42.1", "You spent 42.10 PP more than you earned."},
	}
	for _, tt := range tests {
		if got := NetMessage(d(tt.net)); got != tt.want {
			t.Errorf("NetMessage(%s) = %q, want %q", tt.net, got, tt.want)
		}
	}
}

func TestMessages(t *testing.T) {
	totals := transaction.Totals{Income: d("1000"), Expense: d("400")}
	breakdown := []transaction.CategoryTotal{
		{Category: "Food & Dining", Amount: d("250")},
		{Category: "Travel", Amount: d("150")},
	}

	msgs := Messages(totals, breakdown)
	if len(msgs) != 2 {
		t.Fatalf("Messages() returned %d messages, want 2", len(msgs))
	}
	if msgs[1] != "Your top spending category is Food & Dining (250.00 PP)." {
		t.Errorf("top category message = %q", msgs[1])
	}

	if msgs := Messages(transaction.Totals{Income: d("10"), Expense: decimal.Zero}, nil); len(msgs) != 1 {
		t.Errorf("Messages() without expenses = %v, want only the net message", msgs)
	}
}

func TestTopCategories(t *testing.T) {
	var breakdown []transaction.CategoryTotal
	for i := 0; i < 7; i++ {
		breakdown = append(breakdown, transaction.CategoryTotal{Category: "c", Amount: decimal.NewFromInt(int64(100 - i))})
	}
	if got := TopCategories(breakdown, BreakdownSize); len(got) != 5 {
		t.Errorf("TopCategories() len = %d, want 5", len(got))
	}
	if got := TopCategories(breakdown[:2], BreakdownSize); len(got) != 2 {
		t.Errorf("TopCategories() len = %d, want 2", len(got))
	}
}

func TestCheckSpending(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -20)

	sevenOlder := func(amount string) []*transaction.Transaction {
		var out []*transaction.Transaction
		for i := 0; i < 7; i++ {
			out = append(out, expense(amount, old))
		}
		return out
	}

	tests := []struct {
		name     string
		expenses []*transaction.Transaction
		want     bool
	}{
		{
			name:     "no older expenses never alerts",
			expenses: []*transaction.Transaction{expense("5000", now.Add(-time.Hour))},
			want:     false,
		},
		{
			name:     "spending above 125 percent of weekly average",
			expenses: append(sevenOlder("100"), expense("876", now.Add(-time.Hour))),
			want:     true,
		},
		{
			name:     "exactly 125 percent does not alert",
			expenses: append(sevenOlder("100"), expense("875", now.Add(-time.Hour))),
			want:     false,
		},
		{
			name:     "seven days ago still counts as recent",
			expenses: append(sevenOlder("100"), expense("900", now.AddDate(0, 0, -7))),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckSpending(tt.expenses, now)
			if got.Triggered != tt.want {
				t.Errorf("Triggered = %v, want %v (recent %s, avg %s)", got.Triggered, tt.want, got.LastSevenDays, got.AverageWeekly)
			}
		})
	}
}

func TestCheckSpending_IgnoresIncome(t *testing.T) {
	now := time.Now()
	txns := []*transaction.Transaction{
		{Amount: d("10000"), Type: transaction.TypeIncome, CreatedAt: now},
		expense("10", now.AddDate(0, 0, -30)),
	}
	got := CheckSpending(txns, now)
	if got.Triggered || !got.LastSevenDays.IsZero() {
		t.Errorf("CheckSpending() = %+v, want no recent spending", got)
	}
}
