// Package ledger implements the authoritative store of users, groups and
// expenses, and keeps net balances in step with every mutation.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/splitledger/internal/bootstrap"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Store owns the ledger collections. All mutations are serialized; each one
// validates its input, replaces the affected collection wholesale, recomputes
// balances and mirrors a snapshot to storage before the lock is released.
// A mutation whose save fails still succeeds and returns a
// *PersistenceWarning as its error; check it with IsWarning.
type Store struct {
	mu sync.RWMutex

	snapshots storage.SnapshotStore
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time
	newID     func() string
	bootstrap models.Snapshot

	users          []models.User
	groups         []models.Group
	expenses       []models.Expense
	currentGroupID string
	currentUserID  string
	balances       map[string]float64
	lastWarning    error
}

// New creates a Store and seeds it from snapshots. A missing or unreadable
// snapshot is not fatal: the bootstrap dataset is used instead. snapshots may
// be nil, in which case nothing is persisted.
func New(ctx context.Context, snapshots storage.SnapshotStore, opts ...Option) *Store {
	s := &Store{
		snapshots: snapshots,
		logger:    slog.Default(),
		observer:  nopObserver{},
		now:       time.Now,
		newID:     defaultID,
		bootstrap: bootstrap.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.seed(s.loadSnapshot(ctx))
	s.recomputeBalances()
	return s
}

func (s *Store) loadSnapshot(ctx context.Context) models.Snapshot {
	if s.snapshots == nil {
		return s.bootstrap.Clone()
	}

	snap, err := s.snapshots.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		s.logger.Info("No snapshot found, using bootstrap dataset")
		return s.bootstrap.Clone()
	case err != nil:
		s.lastWarning = &PersistenceWarning{Op: "load", Err: err}
		s.logger.Warn("Snapshot load failed, using bootstrap dataset", "error", err)
		return s.bootstrap.Clone()
	}

	s.logger.Info("Snapshot loaded",
		"users", len(snap.Users),
		"groups", len(snap.Groups),
		"expenses", len(snap.Expenses),
	)
	return snap.Clone()
}

func (s *Store) seed(snap models.Snapshot) {
	s.users = snap.Users
	s.groups = snap.Groups
	s.expenses = snap.Expenses

	if s.groupIndex(snap.CurrentGroupID) >= 0 {
		s.currentGroupID = snap.CurrentGroupID
	} else if len(s.groups) > 0 {
		s.currentGroupID = s.groups[0].ID
	}

	if s.userIndex(s.currentUserID) < 0 {
		s.currentUserID = ""
		if len(s.users) > 0 {
			s.currentUserID = s.users[0].ID
		}
	}
}

// mutate runs fn under the write lock. fn must validate everything before
// assigning any field and reports whether it changed state. Changed state is
// followed by a balance recomputation and a snapshot save. A failed save is
// returned as a *PersistenceWarning after the change has been applied.
func (s *Store) mutate(ctx context.Context, op string, fn func() (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn()
	s.observer.MutationApplied(op, err)
	if err != nil {
		s.logger.Warn("Mutation rejected", "op", op, "error", err)
		return err
	}
	if !changed {
		return nil
	}

	s.recomputeBalances()
	if warn := s.persist(ctx); warn != nil {
		return warn
	}
	return nil
}

// recomputeBalances derives balances from the full expense collection.
// Callers must hold the write lock.
func (s *Store) recomputeBalances() {
	s.balances = calculator.CalculateBalances(s.users, s.expenses)
	s.observer.ExpenseCount(len(s.expenses))
}

func (s *Store) persist(ctx context.Context) *PersistenceWarning {
	if s.snapshots == nil {
		return nil
	}
	snap := s.snapshotLocked()
	if err := s.snapshots.Save(ctx, &snap); err != nil {
		warn := &PersistenceWarning{Op: "save", Err: err}
		s.lastWarning = warn
		s.observer.SnapshotSaveFailed()
		s.logger.Warn("Snapshot save failed", "error", err)
		return warn
	}
	s.lastWarning = nil
	return nil
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Users:          s.users,
		Groups:         s.groups,
		Expenses:       s.expenses,
		CurrentGroupID: s.currentGroupID,
	}.Clone()
}

// AddUser creates a user with a fresh ID.
func (s *Store) AddUser(ctx context.Context, profile models.Profile) (models.User, error) {
	var user models.User
	err := s.mutate(ctx, "add_user", func() (bool, error) {
		if err := validateProfile(profile); err != nil {
			return false, err
		}
		user = s.newUser(profile)
		s.users = appendUser(s.users, user)
		return true, nil
	})
	if failed(err) {
		return models.User{}, err
	}

	s.logger.Info("User added", "user_id", user.ID, "name", user.Name)
	return user.Clone(), err
}

// UpdateProfile replaces the editable fields of userID. Only the user may
// edit their own profile.
func (s *Store) UpdateProfile(ctx context.Context, actorID, userID string, profile models.Profile) (models.User, error) {
	var user models.User
	err := s.mutate(ctx, "update_profile", func() (bool, error) {
		idx := s.userIndex(userID)
		if idx < 0 {
			return false, notFoundf("user %s", userID)
		}
		if actorID != userID {
			return false, ErrForbidden
		}
		if err := validateProfile(profile); err != nil {
			return false, err
		}

		user = models.User{
			ID:          userID,
			Name:        strings.TrimSpace(profile.Name),
			Email:       strings.TrimSpace(profile.Email),
			Avatar:      profile.Avatar,
			Preferences: copyPrefs(profile.Preferences),
		}
		users := append([]models.User(nil), s.users...)
		users[idx] = user
		s.users = users
		return true, nil
	})
	if failed(err) {
		return models.User{}, err
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return user.Clone(), err
}

// AddGroup creates a group and makes it the current group. Repeated member
// IDs collapse into one entry.
func (s *Store) AddGroup(ctx context.Context, name string, memberIDs []string) (models.Group, error) {
	var group models.Group
	err := s.mutate(ctx, "add_group", func() (bool, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return false, validationf("group name is required")
		}

		members := make([]string, 0, len(memberIDs))
		seen := make(map[string]bool, len(memberIDs))
		for _, id := range memberIDs {
			if seen[id] {
				continue
			}
			if s.userIndex(id) < 0 {
				return false, notFoundf("user %s", id)
			}
			seen[id] = true
			members = append(members, id)
		}

		group = models.Group{ID: s.newID(), Name: name, Members: members}
		s.groups = append(append([]models.Group(nil), s.groups...), group)
		s.currentGroupID = group.ID
		return true, nil
	})
	if failed(err) {
		return models.Group{}, err
	}

	s.logger.Info("Group added", "group_id", group.ID, "name", group.Name, "members_count", len(group.Members))
	return group.Clone(), err
}

// AddMemberToGroup appends userID to the group's members. Adding an existing
// member is a no-op and reports added=false.
func (s *Store) AddMemberToGroup(ctx context.Context, groupID, userID string) (bool, error) {
	var added bool
	err := s.mutate(ctx, "add_member", func() (bool, error) {
		gi := s.groupIndex(groupID)
		if gi < 0 {
			return false, notFoundf("group %s", groupID)
		}
		if s.userIndex(userID) < 0 {
			return false, notFoundf("user %s", userID)
		}
		if s.groups[gi].HasMember(userID) {
			return false, nil
		}

		s.groups = withMember(s.groups, gi, userID)
		added = true
		return true, nil
	})
	if failed(err) {
		return false, err
	}

	if added {
		s.logger.Info("Member added to group", "group_id", groupID, "user_id", userID)
	} else {
		s.logger.Debug("Member already in group", "group_id", groupID, "user_id", userID)
	}
	return added, err
}

// InviteMember creates a user from profile and adds it to the group in one step.
func (s *Store) InviteMember(ctx context.Context, groupID string, profile models.Profile) (models.User, error) {
	var user models.User
	err := s.mutate(ctx, "invite_member", func() (bool, error) {
		gi := s.groupIndex(groupID)
		if gi < 0 {
			return false, notFoundf("group %s", groupID)
		}
		if err := validateProfile(profile); err != nil {
			return false, err
		}

		user = s.newUser(profile)
		s.users = appendUser(s.users, user)
		s.groups = withMember(s.groups, gi, user.ID)
		return true, nil
	})
	if failed(err) {
		return models.User{}, err
	}

	s.logger.Info("Member invited", "group_id", groupID, "user_id", user.ID)
	return user.Clone(), err
}

// AddExpense records draft with a fresh ID. The splits are stored as given;
// they must add up to the amount within calculator.SplitTolerance.
func (s *Store) AddExpense(ctx context.Context, draft models.Expense) (models.Expense, error) {
	var expense models.Expense
	err := s.mutate(ctx, "add_expense", func() (bool, error) {
		var err error
		expense, err = s.addExpenseLocked(draft)
		return err == nil, err
	})
	if failed(err) {
		return models.Expense{}, err
	}

	s.logger.Info("Expense added",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"paid_by", expense.PaidBy,
		"amount", expense.Amount,
		"category", expense.Category,
	)
	return expense.Clone(), err
}

func (s *Store) addExpenseLocked(draft models.Expense) (models.Expense, error) {
	if err := s.validateExpense(draft); err != nil {
		return models.Expense{}, err
	}

	expense := draft.Clone()
	expense.ID = s.newID()
	expense.Title = strings.TrimSpace(expense.Title)
	if expense.Date.IsZero() {
		expense.Date = s.now()
	}
	if strings.TrimSpace(expense.Category) == "" {
		expense.Category = models.CategoryOther
	}

	s.expenses = append(append([]models.Expense(nil), s.expenses...), expense)
	return expense, nil
}

func (s *Store) validateExpense(e models.Expense) error {
	if strings.TrimSpace(e.Title) == "" {
		return validationf("title is required")
	}
	if !(e.Amount > 0) || math.IsInf(e.Amount, 0) {
		return validationf("amount must be greater than zero")
	}

	gi := s.groupIndex(e.GroupID)
	if gi < 0 {
		return notFoundf("group %s", e.GroupID)
	}
	if s.userIndex(e.PaidBy) < 0 {
		return notFoundf("user %s", e.PaidBy)
	}
	if !s.groups[gi].HasMember(e.PaidBy) {
		return validationf("payer %s is not a member of group %s", e.PaidBy, e.GroupID)
	}

	if len(e.Splits) == 0 {
		return validationf("at least one split is required")
	}
	for _, split := range e.Splits {
		if s.userIndex(split.UserID) < 0 {
			return notFoundf("user %s", split.UserID)
		}
		if split.Amount < 0 || math.IsNaN(split.Amount) {
			return validationf("split amount for %s must not be negative", split.UserID)
		}
	}
	if sum := calculator.SumSplits(e.Splits); !calculator.WithinTolerance(sum, e.Amount) {
		return validationf("splits add up to %.2f, expected %.2f", sum, e.Amount)
	}
	return nil
}

// DeleteExpense removes the expense with the given ID. Deleting an unknown
// ID returns ErrNotFound.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	err := s.mutate(ctx, "delete_expense", func() (bool, error) {
		idx := s.expenseIndex(id)
		if idx < 0 {
			return false, notFoundf("expense %s", id)
		}

		expenses := make([]models.Expense, 0, len(s.expenses)-1)
		expenses = append(expenses, s.expenses[:idx]...)
		expenses = append(expenses, s.expenses[idx+1:]...)
		s.expenses = expenses
		return true, nil
	})
	if failed(err) {
		return err
	}

	s.logger.Info("Expense deleted", "expense_id", id)
	return err
}

// MarkExpenseAsPaid flags userID's split of the expense as paid. Marking an
// already-paid split succeeds without changing anything.
func (s *Store) MarkExpenseAsPaid(ctx context.Context, expenseID, userID string) error {
	err := s.mutate(ctx, "mark_paid", func() (bool, error) {
		idx := s.expenseIndex(expenseID)
		if idx < 0 {
			return false, notFoundf("expense %s", expenseID)
		}
		si := s.expenses[idx].SplitFor(userID)
		if si < 0 {
			return false, notFoundf("split for user %s on expense %s", userID, expenseID)
		}
		if s.expenses[idx].Splits[si].IsPaid {
			return false, nil
		}

		updated := s.expenses[idx].Clone()
		updated.Splits[si].IsPaid = true
		expenses := append([]models.Expense(nil), s.expenses...)
		expenses[idx] = updated
		s.expenses = expenses
		return true, nil
	})
	if failed(err) {
		return err
	}

	s.logger.Info("Split marked paid", "expense_id", expenseID, "user_id", userID)
	return err
}

// SettleUp records a direct payment from fromID to toID as a Settlement
// expense in the current group. The sender is credited the amount and both
// splits are already paid, so no member is debited.
func (s *Store) SettleUp(ctx context.Context, fromID, toID string, amount float64) (models.Expense, error) {
	var expense models.Expense
	err := s.mutate(ctx, "settle_up", func() (bool, error) {
		if !(amount > 0) {
			return false, validationf("settlement amount must be greater than zero")
		}
		if fromID == toID {
			return false, validationf("cannot settle up with yourself")
		}
		if s.userIndex(fromID) < 0 {
			return false, notFoundf("user %s", fromID)
		}
		if s.userIndex(toID) < 0 {
			return false, notFoundf("user %s", toID)
		}
		if s.currentGroupID == "" {
			return false, validationf("no current group selected")
		}

		var err error
		expense, err = s.addExpenseLocked(models.Expense{
			Title:    "Settlement",
			Amount:   amount,
			Date:     s.now(),
			PaidBy:   fromID,
			Category: models.CategorySettlement,
			GroupID:  s.currentGroupID,
			Splits: []models.Split{
				{UserID: fromID, Amount: amount, IsPaid: true},
				{UserID: toID, Amount: 0, IsPaid: true},
			},
		})
		return err == nil, err
	})
	if failed(err) {
		return models.Expense{}, err
	}

	s.logger.Info("Settlement recorded",
		"expense_id", expense.ID,
		"from_user_id", fromID,
		"to_user_id", toID,
		"amount", amount,
	)
	return expense.Clone(), err
}

// SetCurrentGroup switches the active group.
func (s *Store) SetCurrentGroup(ctx context.Context, groupID string) error {
	err := s.mutate(ctx, "set_current_group", func() (bool, error) {
		if s.groupIndex(groupID) < 0 {
			return false, notFoundf("group %s", groupID)
		}
		if s.currentGroupID == groupID {
			return false, nil
		}
		s.currentGroupID = groupID
		return true, nil
	})
	if failed(err) {
		return err
	}

	s.logger.Debug("Current group set", "group_id", groupID)
	return err
}

func (s *Store) newUser(p models.Profile) models.User {
	return models.User{
		ID:          s.newID(),
		Name:        strings.TrimSpace(p.Name),
		Email:       strings.TrimSpace(p.Email),
		Avatar:      p.Avatar,
		Preferences: copyPrefs(p.Preferences),
	}
}

func validateProfile(p models.Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationf("name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return validationf("email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return validationf("email %q is not valid", p.Email)
	}
	return nil
}

func appendUser(users []models.User, u models.User) []models.User {
	return append(append([]models.User(nil), users...), u)
}

func withMember(groups []models.Group, idx int, userID string) []models.Group {
	out := append([]models.Group(nil), groups...)
	g := out[idx].Clone()
	g.Members = append(g.Members, userID)
	out[idx] = g
	return out
}

func copyPrefs(p map[string]string) map[string]string {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (s *Store) userIndex(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) groupIndex(id string) int {
	for i, g := range s.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) expenseIndex(id string) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}
