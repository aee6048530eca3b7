package insight

import (
	"fmt"
	"time"

	"pennyverse/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

const (
	// BreakdownSize is how many categories the dashboard shows.
	BreakdownSize = 5
	alertWindow   = 7 * 24 * time.Hour
)

var alertFactor = decimal.RequireFromString("1.25")

// NetMessage describes the user's overall balance.
func NetMessage(net decimal.Decimal) string {
	if net.IsPositive() {
		return fmt.Sprintf("You saved %s PP this period! 🎉", net.StringFixed(2))
	}
	return fmt.Sprintf("You spent %s PP more than you earned.", net.Abs().StringFixed(2))
}

// TopCategoryMessage names the largest expense category. It returns false
// when the user has no expenses.
func TopCategoryMessage(breakdown []transaction.CategoryTotal) (string, bool) {
	if len(breakdown) == 0 {
		return "", false
	}
	top := breakdown[0]
	return fmt.Sprintf("Your top spending category is %s (%s PP).", top.Category, top.Amount.StringFixed(2)), true
}

func Messages(totals transaction.Totals, breakdown []transaction.CategoryTotal) []string {
	msgs := []string{NetMessage(totals.Net())}
	if msg, ok := TopCategoryMessage(breakdown); ok {
		msgs = append(msgs, msg)
	}
	return msgs
}

// TopCategories trims an amount-sorted breakdown to n entries.
func TopCategories(breakdown []transaction.CategoryTotal, n int) []transaction.CategoryTotal {
	if len(breakdown) <= n {
		return breakdown
	}
	return breakdown[:n]
}

type SpendingAlert struct {
	Triggered      bool            `json:"triggered"`
	LastSevenDays  decimal.Decimal `json:"lastSevenDays"`
	AverageWeekly  decimal.Decimal `json:"averageWeekly"`
	OlderExpenses  int             `json:"olderExpenses"`
	RecentExpenses int             `json:"recentExpenses"`
}

// CheckSpending compares the last seven days of expenses with the weekly
// average of everything older. The average treats every seven older
// entries as one week. No alert is raised without older expenses.
func CheckSpending(expenses []*transaction.Transaction, now time.Time) SpendingAlert {
	alert := SpendingAlert{LastSevenDays: decimal.Zero, AverageWeekly: decimal.Zero}
	older := decimal.Zero

	for _, t := range expenses {
		if t.Type != transaction.TypeExpense {
			continue
		}
		if now.Sub(t.CreatedAt) <= alertWindow {
			alert.LastSevenDays = alert.LastSevenDays.Add(t.Amount)
			alert.RecentExpenses++
		} else {
			older = older.Add(t.Amount)
			alert.OlderExpenses++
		}
	}

	if alert.OlderExpenses == 0 {
		return alert
	}

	weeks := decimal.NewFromInt(int64(alert.OlderExpenses)).Div(decimal.NewFromInt(7))
	alert.AverageWeekly = older.Div(weeks).Round(2)
	alert.Triggered = alert.LastSevenDays.GreaterThan(older.Div(weeks).Mul(alertFactor))
	return alert
}
