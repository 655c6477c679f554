package models

// Settlement represents a suggested payment between two members to clear debts.
// It is derived from net balances and never persisted; recording an actual
// payment creates an Expense with CategorySettlement.
type Settlement struct {
	// FromUserID is the member who should pay (debtor).
	FromUserID string `json:"fromUserId"`

	// ToUserID is the member who should receive the payment (creditor).
	ToUserID string `json:"toUserId"`

	// Amount is the suggested payment amount.
	Amount float64 `json:"amount"`
}
