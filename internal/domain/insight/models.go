package insight

import (
	"time"

	"pennyverse/internal/domain/reward"
	"pennyverse/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// Dashboard is the per-user summary shown on the home screen.
type Dashboard struct {
	TotalIncome       decimal.Decimal             `json:"totalIncome"`
	TotalExpense      decimal.Decimal             `json:"totalExpense"`
	NetBalance        decimal.Decimal             `json:"netBalance"`
	WalletBalance     decimal.Decimal             `json:"walletBalance"`
	MonthlyIncome     decimal.Decimal             `json:"monthlyIncome"`
	NeedsOnboarding   bool                        `json:"needsOnboarding"`
	Points            int                         `json:"points"`
	LifetimePoints    int                         `json:"lifetimePoints"`
	Streak            int                         `json:"streak"`
	Badge             *reward.Badge               `json:"badge,omitempty"`
	ActiveVaults      int                         `json:"activeVaults"`
	CategoryBreakdown []transaction.CategoryTotal `json:"categoryBreakdown"`
	GeneratedAt       time.Time                   `json:"generatedAt"`
}

// Report is the insights screen payload.
type Report struct {
	TotalIncome       decimal.Decimal             `json:"totalIncome"`
	TotalExpense      decimal.Decimal             `json:"totalExpense"`
	Insights          []string                    `json:"insights"`
	CategoryBreakdown []transaction.CategoryTotal `json:"categoryBreakdown"`
	SpendingAlert     SpendingAlert               `json:"spendingAlert"`
}
