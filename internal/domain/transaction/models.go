package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden: transaction does not belong to user")
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        Type            `json:"type"`
	Category    string          `json:"category"`
	Payee       *string         `json:"payee,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type CreateTransactionParams struct {
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Description string
	Type        Type
	// Payee is a phone number or UPI id for quick payments.
	Payee string
	// Category overrides the classifier for expenses. Empty means auto.
	Category string
}

// Normalize trims input and fills the quick pay description.
func (p *CreateTransactionParams) Normalize() {
	p.Description = strings.TrimSpace(p.Description)
	p.Payee = strings.TrimSpace(p.Payee)
	p.Category = strings.TrimSpace(p.Category)
	switch {
	case p.Description != "":
	case p.Payee != "":
		p.Description = "Payment to " + p.Payee
	case p.Category != "":
		p.Description = p.Category
	}
}

func (p CreateTransactionParams) Validate() error {
	if p.UserID == uuid.Nil {
		return fmt.Errorf("%w: valid user ID is required", ErrInvalidInput)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalidInput)
	}
	if p.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(p.Description) > 255 {
		return fmt.Errorf("%w: description must be 255 characters or less", ErrInvalidInput)
	}
	if p.Category != "" && !IsKnownCategory(p.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, p.Category)
	}
	return nil
}

// Totals are the lifetime income and expense sums of a user.
type Totals struct {
	Income  decimal.Decimal `json:"totalIncome"`
	Expense decimal.Decimal `json:"totalExpense"`
}

func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// CategoryTotal is the summed expense of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
