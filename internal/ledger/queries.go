package ledger

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// MemberRelation is how one group member stands with the caller.
type MemberRelation struct {
	UserID   string              `json:"userId"`
	Name     string              `json:"name"`
	Balance  float64             `json:"balance"`
	Relation calculator.Relation `json:"relation"`
}

// Users returns all users in creation order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out
}

// User returns the user with the given ID.
func (s *Store) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.userIndex(id)
	if idx < 0 {
		return models.User{}, notFoundf("user %s", id)
	}
	return s.users[idx].Clone(), nil
}

// CurrentUser returns the user acting by default. ok is false when the
// ledger has no users.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.userIndex(s.currentUserID)
	if idx < 0 {
		return models.User{}, false
	}
	return s.users[idx].Clone(), true
}

// Groups returns all groups in creation order.
func (s *Store) Groups() []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.Clone()
	}
	return out
}

// Group returns the group with the given ID.
func (s *Store) Group(id string) (models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.groupIndex(id)
	if idx < 0 {
		return models.Group{}, notFoundf("group %s", id)
	}
	return s.groups[idx].Clone(), nil
}

// CurrentGroup returns the active group. ok is false when there is none.
func (s *Store) CurrentGroup() (models.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.groupIndex(s.currentGroupID)
	if idx < 0 {
		return models.Group{}, false
	}
	return s.groups[idx].Clone(), true
}

// Expenses returns every expense in insertion order.
func (s *Store) Expenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = e.Clone()
	}
	return out
}

// GroupExpenses returns the expenses owned by groupID.
func (s *Store) GroupExpenses(groupID string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.groupIndex(groupID) < 0 {
		return nil, notFoundf("group %s", groupID)
	}
	return s.groupExpensesLocked(groupID), nil
}

func (s *Store) groupExpensesLocked(groupID string) []models.Expense {
	var out []models.Expense
	for _, e := range s.expenses {
		if e.GroupID == groupID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Balances returns a copy of the net balance of every user across all groups.
func (s *Store) Balances() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.balances))
	for k, v := range s.balances {
		out[k] = v
	}
	return out
}

// GroupBalances returns net balances computed from groupID's expenses only.
func (s *Store) GroupBalances(groupID string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.groupIndex(groupID)
	if idx < 0 {
		return nil, notFoundf("group %s", groupID)
	}
	return s.groupBalancesLocked(idx), nil
}

func (s *Store) groupBalancesLocked(idx int) map[string]float64 {
	g := s.groups[idx]
	members := make([]models.User, 0, len(g.Members))
	for _, id := range g.Members {
		members = append(members, models.User{ID: id})
	}
	return calculator.CalculateBalances(members, s.groupExpensesLocked(g.ID))
}

// Relations returns, for every other member of groupID, the simplified
// relation between userID and that member. It uses the global net balances,
// so it is an approximation; see calculator.RelationBalance.
func (s *Store) Relations(userID, groupID string) ([]MemberRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gi := s.groupIndex(groupID)
	if gi < 0 {
		return nil, notFoundf("group %s", groupID)
	}
	if s.userIndex(userID) < 0 {
		return nil, notFoundf("user %s", userID)
	}

	mine := s.balances[userID]
	var out []MemberRelation
	for _, memberID := range s.groups[gi].Members {
		if memberID == userID {
			continue
		}
		var name string
		if ui := s.userIndex(memberID); ui >= 0 {
			name = s.users[ui].Name
		}
		theirs := s.balances[memberID]
		out = append(out, MemberRelation{
			UserID:   memberID,
			Name:     name,
			Balance:  theirs,
			Relation: calculator.RelationBalance(mine, theirs),
		})
	}
	return out, nil
}

// SuggestedSettlements proposes transfers that would settle groupID's own
// expenses.
func (s *Store) SuggestedSettlements(groupID string) ([]models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.groupIndex(groupID)
	if idx < 0 {
		return nil, notFoundf("group %s", groupID)
	}
	return calculator.SuggestSettlements(s.groupBalancesLocked(idx)), nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// PersistenceWarning returns the warning left by the most recent load or
// save, or nil if it succeeded. It is store-wide status; the warning for a
// particular mutation is the error that mutation returned.
func (s *Store) PersistenceWarning() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWarning
}
