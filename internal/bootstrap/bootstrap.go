// Package bootstrap provides the seed dataset used when no snapshot exists.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

// Default returns the built-in dataset: four users, two groups and four
// expenses. Each call returns fresh slices.
func Default() models.Snapshot {
	users := []models.User{
		{ID: "u1", Name: "You", Email: "you@example.com", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Felix"},
		{ID: "u2", Name: "Alex", Email: "alex@example.com", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alex"},
		{ID: "u3", Name: "Taylor", Email: "taylor@example.com", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Taylor"},
		{ID: "u4", Name: "Jordan", Email: "jordan@example.com", Avatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Jordan"},
	}

	groups := []models.Group{
		{ID: "g1", Name: "Apartment 2024", Members: []string{"u1", "u2", "u3", "u4"}},
		{ID: "g2", Name: "Summer Trip", Members: []string{"u1", "u2", "u4"}},
	}

	expenses := []models.Expense{
		{
			ID: "e1", Title: "Grocery Shopping", Amount: 120.50, Date: day(time.April, 22),
			PaidBy: "u1", Category: "Food", GroupID: "g1",
			Splits: []models.Split{
				{UserID: "u1", Amount: 30.13, IsPaid: true},
				{UserID: "u2", Amount: 30.13},
				{UserID: "u3", Amount: 30.12},
				{UserID: "u4", Amount: 30.12},
			},
		},
		{
			ID: "e2", Title: "Internet Bill", Amount: 89.99, Date: day(time.April, 20),
			PaidBy: "u3", Category: "Utilities", GroupID: "g1",
			Splits: []models.Split{
				{UserID: "u1", Amount: 22.50},
				{UserID: "u2", Amount: 22.50},
				{UserID: "u3", Amount: 22.49, IsPaid: true},
				{UserID: "u4", Amount: 22.50},
			},
		},
		{
			ID: "e3", Title: "Hotel Reservation", Amount: 450.00, Date: day(time.April, 15),
			PaidBy: "u4", Category: "Travel", GroupID: "g2",
			Splits: []models.Split{
				{UserID: "u1", Amount: 150.00},
				{UserID: "u4", Amount: 150.00, IsPaid: true},
				{UserID: "u2", Amount: 150.00},
			},
		},
		{
			ID: "e4", Title: "Dinner", Amount: 78.40, Date: day(time.April, 24),
			PaidBy: "u2", Category: "Food", GroupID: "g1",
			Splits: []models.Split{
				{UserID: "u1", Amount: 19.60},
				{UserID: "u2", Amount: 19.60, IsPaid: true},
				{UserID: "u3", Amount: 19.60},
				{UserID: "u4", Amount: 19.60},
			},
		},
	}

	return models.Snapshot{Users: users, Groups: groups, Expenses: expenses, CurrentGroupID: "g1"}
}

// LoadFile reads a YAML seed file with the same shape as a snapshot and
// validates it.
func LoadFile(path string) (models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML seed document.
func Parse(data []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := Validate(snap); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// Validate checks referential integrity of a dataset: unique IDs, known
// members, payers belonging to their group, and splits adding up.
func Validate(snap models.Snapshot) error {
	users := make(map[string]bool, len(snap.Users))
	for _, u := range snap.Users {
		if u.ID == "" {
			return fmt.Errorf("user %q has no id", u.Name)
		}
		if users[u.ID] {
			return fmt.Errorf("duplicate user id %s", u.ID)
		}
		users[u.ID] = true
	}

	groups := make(map[string]models.Group, len(snap.Groups))
	for _, g := range snap.Groups {
		if g.ID == "" {
			return fmt.Errorf("group %q has no id", g.Name)
		}
		if _, dup := groups[g.ID]; dup {
			return fmt.Errorf("duplicate group id %s", g.ID)
		}
		seen := make(map[string]bool, len(g.Members))
		for _, m := range g.Members {
			if !users[m] {
				return fmt.Errorf("group %s: unknown member %s", g.ID, m)
			}
			if seen[m] {
				return fmt.Errorf("group %s: member %s listed twice", g.ID, m)
			}
			seen[m] = true
		}
		groups[g.ID] = g
	}

	if snap.CurrentGroupID != "" {
		if _, ok := groups[snap.CurrentGroupID]; !ok {
			return fmt.Errorf("unknown current group %s", snap.CurrentGroupID)
		}
	}

	expenses := make(map[string]bool, len(snap.Expenses))
	for _, e := range snap.Expenses {
		if e.ID == "" || expenses[e.ID] {
			return fmt.Errorf("expense %q: missing or duplicate id", e.Title)
		}
		expenses[e.ID] = true

		g, ok := groups[e.GroupID]
		if !ok {
			return fmt.Errorf("expense %s: unknown group %s", e.ID, e.GroupID)
		}
		if !g.HasMember(e.PaidBy) {
			return fmt.Errorf("expense %s: payer %s is not a member of %s", e.ID, e.PaidBy, e.GroupID)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("expense %s: amount must be greater than zero", e.ID)
		}
		for _, s := range e.Splits {
			if !users[s.UserID] {
				return fmt.Errorf("expense %s: unknown split user %s", e.ID, s.UserID)
			}
		}
		if sum := calculator.SumSplits(e.Splits); !calculator.WithinTolerance(sum, e.Amount) {
			return fmt.Errorf("expense %s: splits add up to %.2f, expected %.2f", e.ID, sum, e.Amount)
		}
	}
	return nil
}
