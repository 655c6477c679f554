package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/mmynk/splitledger/internal/models"
)

// SplitTolerance is how far split amounts (or percentages from 100) may drift
// from the expense total.
const SplitTolerance = 0.1

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrNoMembers       = errors.New("must have at least one member")
	ErrPercentageTotal = errors.New("percentages must add up to 100%")
	ErrCustomTotal     = errors.New("custom amounts must add up to the total amount")
)

// Method names a way of dividing an expense.
type Method string

const (
	MethodEqual      Method = "equal"
	MethodPercentage Method = "percentage"
	MethodCustom     Method = "custom"
)

// SumSplits returns the total of all split amounts.
func SumSplits(splits []models.Split) float64 {
	var sum float64
	for _, s := range splits {
		sum += s.Amount
	}
	return sum
}

// WithinTolerance reports whether got is close enough to want.
func WithinTolerance(got, want float64) bool {
	return math.Abs(got-want) <= SplitTolerance+1e-9
}

// EqualSplit divides amount evenly among members, to the cent. Leftover cents
// go to the first members in order, so the splits always add up exactly.
// The payer's split is marked paid.
func EqualSplit(amount float64, members []string, paidBy string) ([]models.Split, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	cents := int64(math.Round(amount * 100))
	n := int64(len(members))
	base, rem := cents/n, cents%n

	splits := make([]models.Split, len(members))
	for i, m := range members {
		share := base
		if int64(i) < rem {
			share++
		}
		splits[i] = models.Split{
			UserID: m,
			Amount: float64(share) / 100,
			IsPaid: m == paidBy,
		}
	}
	return splits, nil
}

// PercentageSplit assigns each member percentages[member] percent of amount.
// Members without an entry get zero. The percentages must sum to 100 within
// SplitTolerance.
func PercentageSplit(amount float64, members []string, percentages map[string]float64, paidBy string) ([]models.Split, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	var total float64
	for _, m := range members {
		total += percentages[m]
	}
	if !WithinTolerance(total, 100) {
		return nil, fmt.Errorf("%w (got %.2f%%)", ErrPercentageTotal, total)
	}

	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{
			UserID: m,
			Amount: round2(percentages[m] / 100 * amount),
			IsPaid: m == paidBy,
		}
	}
	return splits, nil
}

// CustomSplit uses the caller-provided amount for each member. The amounts
// must sum to the total within SplitTolerance.
func CustomSplit(amount float64, members []string, custom map[string]float64, paidBy string) ([]models.Split, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	var total float64
	for _, m := range members {
		total += custom[m]
	}
	if !WithinTolerance(total, amount) {
		return nil, fmt.Errorf("%w (got %.2f, want %.2f)", ErrCustomTotal, total, amount)
	}

	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{
			UserID: m,
			Amount: round2(custom[m]),
			IsPaid: m == paidBy,
		}
	}
	return splits, nil
}

// Split dispatches to the helper for method. values holds percentages or
// custom amounts and is ignored for equal splits.
func Split(method Method, amount float64, members []string, values map[string]float64, paidBy string) ([]models.Split, error) {
	switch method {
	case MethodEqual, "":
		return EqualSplit(amount, members, paidBy)
	case MethodPercentage:
		return PercentageSplit(amount, members, values, paidBy)
	case MethodCustom:
		return CustomSplit(amount, members, values, paidBy)
	default:
		return nil, fmt.Errorf("unknown split method %q", method)
	}
}
