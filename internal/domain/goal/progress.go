package goal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// AddToGoal adds amount to g. CompletedAt is set the first time the
// current amount reaches the target and is never moved afterwards.
func AddToGoal(g *Goal, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.UpdatedAt = now
	if g.CompletedAt == nil && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		completedAt := now
		g.CompletedAt = &completedAt
	}
	return nil
}

// Progress returns current/target as a percentage capped at 100.
func Progress(g *Goal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	p, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	return math.Min(100, p)
}

// DaysLeft is the number of started days until the deadline, never negative.
func DaysLeft(g *Goal, now time.Time) int {
	remaining := g.Deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// DailySavingsNeeded is what must be put aside each remaining day to hit
// the target by the deadline.
func DailySavingsNeeded(g *Goal, now time.Time) decimal.Decimal {
	days := DaysLeft(g, now)
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if days == 0 || g.IsCompleted() || !remaining.IsPositive() {
		return decimal.Zero
	}
	return remaining.Div(decimal.NewFromInt(int64(days))).Round(2)
}

func MotivationalMessage(progress float64) string {
	switch {
	case progress >= 100:
		return "🎉 Goal achieved! Amazing work!"
	case progress >= 80:
		return "🔥 You're 80% there! Keep going!"
	case progress >= 50:
		return "💪 Halfway there! You're doing great!"
	case progress >= 25:
		return "🌟 Great start! Keep building momentum!"
	default:
		return "🚀 Every journey starts with a single step!"
	}
}
