package transaction

import "strings"

const (
	CategoryFoodDining     = "Food & Dining"
	CategoryTravel         = "Travel"
	CategoryShopping       = "Shopping"
	CategorySubscriptions  = "Subscriptions"
	CategoryBills          = "Bills"
	CategoryIncome         = "Income"
	CategoryGeneralExpense = "General Expense"
)

type categoryRule struct {
	Category string
	Keywords []string
}

// categoryRules is evaluated in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{CategoryFoodDining, []string{"food", "restaurant", "lunch", "dinner", "breakfast"}},
	{CategoryTravel, []string{"uber", "taxi", "bus", "train", "flight"}},
	{CategoryShopping, []string{"amazon", "shopping", "store", "mall"}},
	{CategorySubscriptions, []string{"netflix", "spotify", "subscription", "prime"}},
	{CategoryBills, []string{"electricity", "water", "rent", "bill", "utility"}},
	{CategoryIncome, []string{"salary", "income", "payment", "received"}},
}

// Classify maps a free-text description to a category label using
// case-insensitive substring matching. It never fails.
func Classify(description string) string {
	d := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(d, kw) {
				return rule.Category
			}
		}
	}
	return CategoryGeneralExpense
}

// Categories lists every label Classify can produce, in priority order.
func Categories() []string {
	out := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.Category)
	}
	return append(out, CategoryGeneralExpense)
}

// IsKnownCategory reports whether c is one of the fixed category labels.
func IsKnownCategory(c string) bool {
	for _, known := range Categories() {
		if known == c {
			return true
		}
	}
	return false
}
