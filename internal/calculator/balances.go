package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
)

// settleEpsilon is the smallest residue treated as a real debt.
const settleEpsilon = 0.01

// CalculateBalances computes every user's net balance from the full expense
// collection. Positive means the user is owed money overall, negative means
// the user owes money overall.
//
// Algorithm:
//   - Every known user starts at zero
//   - For each expense, the payer is credited the full amount
//   - Each split that is not yet paid debits its user by the split amount
//
// A paid split contributes nothing, so marking a split paid removes that
// member's debit without touching the payer's credit. Users referenced by an
// expense but missing from users still get an entry.
func CalculateBalances(users []models.User, expenses []models.Expense) map[string]float64 {
	balances := make(map[string]float64, len(users))
	for _, u := range users {
		balances[u.ID] = 0
	}

	for _, expense := range expenses {
		balances[expense.PaidBy] += expense.Amount
		for _, split := range expense.Splits {
			if !split.IsPaid {
				balances[split.UserID] -= split.Amount
			}
		}
	}

	return balances
}

// Direction describes how two members relate in a RelationBalance.
type Direction string

const (
	// Settled means the net balances do not support a direct relation.
	Settled Direction = "settled"
	// OwesYou means the other member owes the current user.
	OwesYou Direction = "owes_you"
	// YouOwe means the current user owes the other member.
	YouOwe Direction = "you_owe"
)

// Relation is the simplified two-party view between the current user and
// another member.
type Relation struct {
	Direction Direction `json:"direction"`
	Amount    float64   `json:"amount"`
}

// RelationBalance derives "who owes whom" between the current user (net
// balance current) and another member (net balance other).
//
// This is an approximation built from aggregate net balances, not from
// pairwise ledgers. In groups of three or more it can report "settled" for
// two members whose debt actually runs through a third member.
func RelationBalance(current, other float64) Relation {
	switch {
	case current > 0 && other < 0:
		return Relation{Direction: OwesYou, Amount: math.Min(current, -other)}
	case current < 0 && other > 0:
		return Relation{Direction: YouOwe, Amount: math.Min(-current, other)}
	default:
		return Relation{Direction: Settled}
	}
}

type party struct {
	id     string
	amount float64
}

// SuggestSettlements proposes transfers that would bring every balance to
// zero, using greedy matching of the largest debtor with the largest creditor.
// The result is deterministic: ties are broken by user ID.
func SuggestSettlements(balances map[string]float64) []models.Settlement {
	var creditors, debtors []party
	for id, bal := range balances {
		if bal > settleEpsilon {
			creditors = append(creditors, party{id: id, amount: bal})
		} else if bal < -settleEpsilon {
			debtors = append(debtors, party{id: id, amount: -bal})
		}
	}
	sortParties(creditors)
	sortParties(debtors)

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].amount, creditors[j].amount)
		if amount > settleEpsilon {
			settlements = append(settlements, models.Settlement{
				FromUserID: debtors[i].id,
				ToUserID:   creditors[j].id,
				Amount:     round2(amount),
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < settleEpsilon {
			i++
		}
		if creditors[j].amount < settleEpsilon {
			j++
		}
	}

	return settlements
}

func sortParties(p []party) {
	sort.Slice(p, func(a, b int) bool {
		if p[a].amount != p[b].amount {
			return p[a].amount > p[b].amount
		}
		return p[a].id < p[b].id
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
