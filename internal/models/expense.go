package models

import "time"

// CategorySettlement marks expenses synthesized by a settle-up.
const CategorySettlement = "Settlement"

// CategoryOther is used when an expense is recorded without a category.
const CategoryOther = "Other"

// Expense is one recorded payment and how it is shared.
type Expense struct {
	// ID is the unique identifier for the expense.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable description (e.g., "Grocery Shopping").
	Title string `json:"title" yaml:"title"`

	// Amount is the positive total in the group's currency unit.
	Amount float64 `json:"amount" yaml:"amount"`

	// Date is when the expense occurred. Serialized as RFC 3339.
	Date time.Time `json:"date" yaml:"date"`

	// PaidBy is the ID of the user who paid the full amount.
	PaidBy string `json:"paidBy" yaml:"paidBy"`

	// Category is a free-form label such as "Food" or "Settlement".
	Category string `json:"category" yaml:"category"`

	// GroupID is the group that owns the expense.
	GroupID string `json:"groupId" yaml:"groupId"`

	// Splits lists each member's share. Order is preserved.
	Splits []Split `json:"splits" yaml:"splits"`
}

// Split is one member's share of an expense.
type Split struct {
	UserID string  `json:"userId" yaml:"userId"`
	Amount float64 `json:"amount" yaml:"amount"`
	IsPaid bool    `json:"isPaid" yaml:"isPaid"`
}

// SplitFor returns the index of the split belonging to userID, or -1.
func (e Expense) SplitFor(userID string) int {
	for i, s := range e.Splits {
		if s.UserID == userID {
			return i
		}
	}
	return -1
}

// IsSettlement reports whether the expense records a direct payment.
func (e Expense) IsSettlement() bool {
	return e.Category == CategorySettlement
}

// Clone returns a copy of the expense with its own split slice.
func (e Expense) Clone() Expense {
	e.Splits = append([]Split(nil), e.Splits...)
	return e
}
