package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/bootstrap"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/memory"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingObserver struct {
	mu          sync.Mutex
	ops         map[string]int
	failures    map[string]int
	saveFailed  int
	lastExpense int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{ops: map[string]int{}, failures: map[string]int{}}
}

func (o *recordingObserver) MutationApplied(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failures[op]++
		return
	}
	o.ops[op]++
}

func (o *recordingObserver) SnapshotSaveFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.saveFailed++
}

func (o *recordingObserver) ExpenseCount(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastExpense = n
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// fourFriends is a dataset with one group of four and no expenses.
func fourFriends() models.Snapshot {
	return models.Snapshot{
		Users: []models.User{
			{ID: "u1", Name: "You", Email: "you@example.com"},
			{ID: "u2", Name: "Alex", Email: "alex@example.com"},
			{ID: "u3", Name: "Taylor", Email: "taylor@example.com"},
			{ID: "u4", Name: "Jordan", Email: "jordan@example.com"},
		},
		Groups: []models.Group{{ID: "g1", Name: "Apartment", Members: []string{"u1", "u2", "u3", "u4"}}},
	}
}

func newTestStore(t *testing.T, seed models.Snapshot, opts ...Option) (*Store, *memory.Store) {
	t.Helper()
	snaps := memory.New()
	opts = append([]Option{
		WithBootstrap(seed),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	}, opts...)
	return New(context.Background(), snaps, opts...), snaps
}

func groceryDraft() models.Expense {
	return models.Expense{
		Title:    "Grocery Shopping",
		Amount:   120.50,
		Date:     time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC),
		PaidBy:   "u1",
		Category: "Food",
		GroupID:  "g1",
		Splits: []models.Split{
			{UserID: "u1", Amount: 30.13, IsPaid: true},
			{UserID: "u2", Amount: 30.13},
			{UserID: "u3", Amount: 30.12},
			{UserID: "u4", Amount: 30.12},
		},
	}
}

func assertBalances(t *testing.T, want map[string]float64, got map[string]float64) {
	t.Helper()
	for id, w := range want {
		assert.InDelta(t, w, got[id], 1e-6, "balance[%s]", id)
	}
}

func TestNewUsesBootstrapWhenNoSnapshot(t *testing.T) {
	store, snaps := newTestStore(t, bootstrap.Default())

	assert.Len(t, store.Users(), 4)
	assert.Len(t, store.Expenses(), 4)
	assert.Nil(t, store.PersistenceWarning())
	assert.Equal(t, 0, snaps.Saves(), "startup must not save")

	group, ok := store.CurrentGroup()
	require.True(t, ok)
	assert.Equal(t, "g1", group.ID)

	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)

	assertBalances(t, map[string]float64{
		"u1": -71.60,
		"u2": -124.23,
		"u3": 40.27,
		"u4": 377.78,
	}, store.Balances())
}

func TestNewLoadsSavedSnapshot(t *testing.T) {
	ctx := context.Background()
	snaps := memory.New()
	saved := fourFriends()
	saved.Groups = append(saved.Groups, models.Group{ID: "g2", Name: "Trip", Members: []string{"u1"}})
	saved.CurrentGroupID = "g2"
	require.NoError(t, snaps.Save(ctx, &saved))

	store := New(ctx, snaps, WithBootstrap(bootstrap.Default()))

	assert.Len(t, store.Groups(), 2)
	assert.Empty(t, store.Expenses())
	group, ok := store.CurrentGroup()
	require.True(t, ok)
	assert.Equal(t, "g2", group.ID)
}

func TestNewFallsBackOnLoadFailure(t *testing.T) {
	snaps := &memory.Store{LoadErr: errors.New("corrupt file")}
	store := New(context.Background(), snaps, WithBootstrap(fourFriends()))

	assert.Len(t, store.Users(), 4)

	var warning *PersistenceWarning
	require.ErrorAs(t, store.PersistenceWarning(), &warning)
	assert.Equal(t, "load", warning.Op)
}

func TestNewWithoutPersistence(t *testing.T) {
	store := New(context.Background(), nil, WithBootstrap(fourFriends()))
	_, err := store.AddUser(context.Background(), models.Profile{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)
	assert.Len(t, store.Users(), 5)
}

func TestAddExpenseEqualSplitScenario(t *testing.T) {
	store, snaps := newTestStore(t, fourFriends())

	expense, err := store.AddExpense(context.Background(), groceryDraft())
	require.NoError(t, err)

	assert.Equal(t, "id-1", expense.ID)
	assert.Equal(t, 1, snaps.Saves())
	assertBalances(t, map[string]float64{
		"u1": 120.50,
		"u2": -30.13,
		"u3": -30.12,
		"u4": -30.12,
	}, store.Balances())

	// Only the payer's own paid share is missing from the sum.
	var sum float64
	for _, v := range store.Balances() {
		sum += v
	}
	assert.InDelta(t, 30.13, sum, 1e-6)
}

func TestAddExpenseDefaults(t *testing.T) {
	store, _ := newTestStore(t, fourFriends())

	draft := groceryDraft()
	draft.Date = time.Time{}
	draft.Category = "  "
	draft.ID = "ignored"

	expense, err := store.AddExpense(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, expense.Date)
	assert.Equal(t, models.CategoryOther, expense.Category)
	assert.NotEqual(t, "ignored", expense.ID)
}

func TestAddExpenseAcceptsRoundingWithinTolerance(t *testing.T) {
	store, _ := newTestStore(t, fourFriends())

	draft := groceryDraft()
	draft.Splits[2].Amount = 30.13
	draft.Splits[3].Amount = 30.13 // sums to 120.52

	_, err := store.AddExpense(context.Background(), draft)
	assert.NoError(t, err)
}

func TestAddExpenseValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *models.Expense)
		wantErr error
	}{
		{"zero amount", func(e *models.Expense) { e.Amount = 0 }, ErrValidation},
		{"negative amount", func(e *models.Expense) { e.Amount = -5 }, ErrValidation},
		{"missing title", func(e *models.Expense) { e.Title = " " }, ErrValidation},
		{"splits off by more than tolerance", func(e *models.Expense) { e.Splits[1].Amount = 40 }, ErrValidation},
		{"no splits", func(e *models.Expense) { e.Splits = nil }, ErrValidation},
		{"negative split", func(e *models.Expense) {
			e.Splits[1].Amount = -30.13
			e.Splits[2].Amount = 90.38
		}, ErrValidation},
		{"unknown group", func(e *models.Expense) { e.GroupID = "nope" }, ErrNotFound},
		{"unknown payer", func(e *models.Expense) { e.PaidBy = "ghost" }, ErrNotFound},
		{"unknown split user", func(e *models.Expense) { e.Splits[3].UserID = "ghost" }, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, snaps := newTestStore(t, fourFriends())
			before := store.Snapshot()

			draft := groceryDraft()
			tt.mutate(&draft)
			_, err := store.AddExpense(context.Background(), draft)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, store.Snapshot(), "rejected mutation must not change state")
			assert.Equal(t, 0, snaps.Saves())
		})
	}
}

func TestAddExpensePayerMustBeGroupMember(t *testing.T) {
	seed := fourFriends()
	seed.Groups = append(seed.Groups, models.Group{ID: "g2", Name: "Pair", Members: []string{"u2", "u3"}})
	store, _ := newTestStore(t, seed)

	draft := models.Expense{
		Title: "Taxi", Amount: 20, PaidBy: "u1", GroupID: "g2",
		Splits: []models.Split{{UserID: "u2", Amount: 10}, {UserID: "u3", Amount: 10}},
	}
	_, err := store.AddExpense(context.Background(), draft)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteExpenseRevertsBalances(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, bootstrap.Default())
	before := store.Balances()

	expense, err := store.AddExpense(ctx, groceryDraft())
	require.NoError(t, err)
	require.NotEqual(t, before, store.Balances())

	require.NoError(t, store.DeleteExpense(ctx, expense.ID))
	assertBalances(t, before, store.Balances())
	assert.Len(t, store.Expenses(), 4)
}

func TestDeleteExpenseUnknownID(t *testing.T) {
	store, snaps := newTestStore(t, bootstrap.Default())

	err := store.DeleteExpense(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, store.Expenses(), 4)
	assert.Equal(t, 0, snaps.Saves())
}

func TestMarkExpenseAsPaid(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, fourFriends())
	expense, err := store.AddExpense(ctx, groceryDraft())
	require.NoError(t, err)

	before := store.Balances()
	require.NoError(t, store.MarkExpenseAsPaid(ctx, expense.ID, "u2"))
	after := store.Balances()

	assert.InDelta(t, 0, after["u2"], 1e-6, "u2's debit is removed")
	assert.InDelta(t, before["u1"], after["u1"], 1e-6, "payer credit is unchanged")
	assert.InDelta(t, before["u3"], after["u3"], 1e-6)
	assert.InDelta(t, before["u4"], after["u4"], 1e-6)

	stored := store.Expenses()[0]
	assert.True(t, stored.Splits[1].IsPaid)

	// Repeating is a no-op.
	require.NoError(t, store.MarkExpenseAsPaid(ctx, expense.ID, "u2"))
	assertBalances(t, after, store.Balances())
}

func TestMarkExpenseAsPaidNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, fourFriends())
	expense, err := store.AddExpense(ctx, models.Expense{
		Title: "Coffee", Amount: 6, PaidBy: "u1", GroupID: "g1",
		Splits: []models.Split{{UserID: "u1", Amount: 3, IsPaid: true}, {UserID: "u2", Amount: 3}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, store.MarkExpenseAsPaid(ctx, "missing", "u2"), ErrNotFound)
	assert.ErrorIs(t, store.MarkExpenseAsPaid(ctx, expense.ID, "u3"), ErrNotFound)
}

func TestSettleUpFollowsRecomputeRule(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, bootstrap.Default())
	before := store.Balances()

	expense, err := store.SettleUp(ctx, "u1", "u4", 50)
	require.NoError(t, err)

	after := store.Balances()
	// The sender is credited the full amount; both splits are paid, so the
	// receiver is not debited.
	assert.InDelta(t, before["u1"]+50, after["u1"], 1e-6)
	assert.InDelta(t, before["u4"], after["u4"], 1e-6)
	assert.InDelta(t, before["u2"], after["u2"], 1e-6)
	assert.InDelta(t, before["u3"], after["u3"], 1e-6)

	assert.Equal(t, models.CategorySettlement, expense.Category)
	assert.Equal(t, "u1", expense.PaidBy)
	assert.Equal(t, "g1", expense.GroupID)
	assert.Equal(t, fixedNow, expense.Date)
	assert.Equal(t, []models.Split{
		{UserID: "u1", Amount: 50, IsPaid: true},
		{UserID: "u4", Amount: 0, IsPaid: true},
	}, expense.Splits)
	assert.True(t, expense.IsSettlement())
}

func TestSettleUpValidation(t *testing.T) {
	ctx := context.Background()
	store, snaps := newTestStore(t, bootstrap.Default())

	_, err := store.SettleUp(ctx, "u1", "u2", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.SettleUp(ctx, "u1", "u2", -10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.SettleUp(ctx, "u1", "u1", 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.SettleUp(ctx, "u1", "ghost", 10)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, store.Expenses(), 4)
	assert.Equal(t, 0, snaps.Saves())
}

func TestSettleUpRequiresCurrentGroup(t *testing.T) {
	seed := fourFriends()
	seed.Groups = nil
	store, _ := newTestStore(t, seed)

	_, err := store.SettleUp(context.Background(), "u1", "u2", 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddMemberToGroupIsIdempotent(t *testing.T) {
	ctx := context.Background()
	seed := fourFriends()
	seed.Users = append(seed.Users, models.User{ID: "u5", Name: "Sam", Email: "sam@example.com"})
	store, snaps := newTestStore(t, seed)

	added, err := store.AddMemberToGroup(ctx, "g1", "u5")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.AddMemberToGroup(ctx, "g1", "u5")
	require.NoError(t, err)
	assert.False(t, added)

	group, err := store.Group("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2", "u3", "u4", "u5"}, group.Members)
	assert.Equal(t, 1, snaps.Saves(), "no-op must not save")

	_, err = store.AddMemberToGroup(ctx, "nope", "u5")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.AddMemberToGroup(ctx, "g1", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddGroup(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, fourFriends())

	group, err := store.AddGroup(ctx, " Ski Trip ", []string{"u1", "u3", "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Ski Trip", group.Name)
	assert.Equal(t, []string{"u1", "u3"}, group.Members)

	current, ok := store.CurrentGroup()
	require.True(t, ok)
	assert.Equal(t, group.ID, current.ID)

	// Duplicate names are allowed.
	_, err = store.AddGroup(ctx, "Ski Trip", nil)
	assert.NoError(t, err)

	_, err = store.AddGroup(ctx, "", []string{"u1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.AddGroup(ctx, "Broken", []string{"u1", "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, store.Groups(), 3)
}

func TestSetCurrentGroup(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, bootstrap.Default())

	require.NoError(t, store.SetCurrentGroup(ctx, "g2"))
	current, _ := store.CurrentGroup()
	assert.Equal(t, "g2", current.ID)
	assert.Equal(t, "g2", store.Snapshot().CurrentGroupID)

	assert.ErrorIs(t, store.SetCurrentGroup(ctx, "nope"), ErrNotFound)
	current, _ = store.CurrentGroup()
	assert.Equal(t, "g2", current.ID)
}

func TestAddUserAndUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, fourFriends())

	user, err := store.AddUser(ctx, models.Profile{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, float64(0), store.Balances()[user.ID])

	_, err = store.AddUser(ctx, models.Profile{Name: "", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.AddUser(ctx, models.Profile{Name: "NoMail"})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := store.UpdateProfile(ctx, user.ID, user.ID, models.Profile{
		Name:        "Samantha",
		Email:       "samantha@example.com",
		Preferences: map[string]string{"currency": "INR"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Samantha", updated.Name)
	assert.Equal(t, user.ID, updated.ID)

	stored, err := store.User(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "INR", stored.Preferences["currency"])

	_, err = store.UpdateProfile(ctx, "u1", user.ID, models.Profile{Name: "Hijack", Email: "h@example.com"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = store.UpdateProfile(ctx, "ghost", "ghost", models.Profile{Name: "G", Email: "g@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInviteMember(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, fourFriends())

	user, err := store.InviteMember(ctx, "g1", models.Profile{Name: "Casey", Email: "casey@example.com"})
	require.NoError(t, err)

	group, err := store.Group("g1")
	require.NoError(t, err)
	assert.True(t, group.HasMember(user.ID))
	assert.Len(t, store.Users(), 5)

	_, err = store.InviteMember(ctx, "nope", models.Profile{Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, store.Users(), 5)
}

func TestSaveFailureDoesNotBlockMutation(t *testing.T) {
	ctx := context.Background()
	observer := newRecordingObserver()
	store, snaps := newTestStore(t, fourFriends(), WithObserver(observer))
	diskErr := errors.New("read-only filesystem")
	snaps.SaveErr = diskErr

	expense, errA := store.AddExpense(ctx, groceryDraft())
	require.True(t, IsWarning(errA))
	assert.NotEmpty(t, expense.ID)
	assert.Len(t, store.Expenses(), 1)

	var warning *PersistenceWarning
	require.ErrorAs(t, errA, &warning)
	assert.Equal(t, "save", warning.Op)
	assert.Equal(t, 1, observer.saveFailed)

	snaps.SaveErr = nil
	_, errB := store.SettleUp(ctx, "u2", "u1", 10)
	require.NoError(t, errB)

	// A later successful save does not erase what the first caller was told.
	assert.True(t, IsWarning(errA))
	assert.ErrorIs(t, errA, diskErr)
	assert.Nil(t, store.PersistenceWarning())
	assert.Equal(t, 1, observer.ops["add_expense"])
	assert.Equal(t, 1, observer.ops["settle_up"])
	assert.Equal(t, 2, observer.lastExpense)
}

func TestWarningsBelongToTheMutationThatSaved(t *testing.T) {
	ctx := context.Background()
	snaps := &memory.Store{LoadErr: errors.New("boom")}
	store := New(ctx, snaps, WithBootstrap(fourFriends()))
	require.Error(t, store.PersistenceWarning())

	tests := []struct {
		name string
		run  func() error
	}{
		{"existing member", func() error {
			_, err := store.AddMemberToGroup(ctx, "g1", "u1")
			return err
		}},
		{"same current group", func() error {
			return store.SetCurrentGroup(ctx, "g1")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.run())
		})
	}

	snaps.SaveErr = errors.New("disk full")
	_, err := store.AddExpense(ctx, groceryDraft())
	require.True(t, IsWarning(err))
	assert.ErrorIs(t, err, snaps.SaveErr)

	_, err = store.AddMemberToGroup(ctx, "g1", "u1")
	assert.NoError(t, err)
}

func TestIsWarning(t *testing.T) {
	assert.False(t, IsWarning(nil))
	assert.False(t, IsWarning(ErrNotFound))
	assert.True(t, IsWarning(&PersistenceWarning{Op: "save", Err: errors.New("x")}))
	assert.True(t, failed(ErrValidation))
	assert.False(t, failed(&PersistenceWarning{Op: "save", Err: errors.New("x")}))
}

func TestSnapshotRoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	store, snaps := newTestStore(t, bootstrap.Default())
	_, err := store.AddExpense(ctx, groceryDraft())
	require.NoError(t, err)
	require.NoError(t, store.SetCurrentGroup(ctx, "g2"))

	reopened := New(ctx, snaps, WithBootstrap(fourFriends()))

	assert.Equal(t, store.Snapshot(), reopened.Snapshot())
	assertBalances(t, store.Balances(), reopened.Balances())
}

func TestRelations(t *testing.T) {
	store, _ := newTestStore(t, bootstrap.Default())

	relations, err := store.Relations("u1", "g1")
	require.NoError(t, err)
	require.Len(t, relations, 3)

	byID := map[string]MemberRelation{}
	for _, r := range relations {
		byID[r.UserID] = r
	}
	assert.Equal(t, calculator.Settled, byID["u2"].Relation.Direction)
	assert.Equal(t, calculator.YouOwe, byID["u3"].Relation.Direction)
	assert.InDelta(t, 40.27, byID["u3"].Relation.Amount, 1e-6)
	assert.Equal(t, calculator.YouOwe, byID["u4"].Relation.Direction)
	assert.InDelta(t, 71.60, byID["u4"].Relation.Amount, 1e-6)
	assert.Equal(t, "Jordan", byID["u4"].Name)

	_, err = store.Relations("u1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Relations("ghost", "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupBalancesAndSuggestions(t *testing.T) {
	store, _ := newTestStore(t, bootstrap.Default())

	balances, err := store.GroupBalances("g2")
	require.NoError(t, err)
	assertBalances(t, map[string]float64{"u1": -150, "u2": -150, "u4": 450}, balances)

	suggestions, err := store.SuggestedSettlements("g2")
	require.NoError(t, err)
	assert.Equal(t, []models.Settlement{
		{FromUserID: "u1", ToUserID: "u4", Amount: 150},
		{FromUserID: "u2", ToUserID: "u4", Amount: 150},
	}, suggestions)

	expenses, err := store.GroupExpenses("g2")
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	_, err = store.SuggestedSettlements("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadsReturnCopies(t *testing.T) {
	store, _ := newTestStore(t, bootstrap.Default())

	expenses := store.Expenses()
	expenses[0].Splits[1].IsPaid = true
	groups := store.Groups()
	groups[0].Members[0] = "changed"
	balances := store.Balances()
	balances["u1"] = 1e6

	assert.False(t, store.Expenses()[0].Splits[1].IsPaid)
	assert.Equal(t, "u1", store.Groups()[0].Members[0])
	assert.InDelta(t, -71.60, store.Balances()["u1"], 1e-6)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	store, snaps := newTestStore(t, fourFriends())

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddExpense(ctx, groceryDraft())
			assert.NoError(t, err)
			_ = store.Balances()
		}()
	}
	wg.Wait()

	assert.Len(t, store.Expenses(), n)
	assert.Equal(t, n, snaps.Saves())
	assert.InDelta(t, 120.50*n, store.Balances()["u1"], 1e-6)
}
