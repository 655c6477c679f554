package models

// Snapshot is the complete ledger state mirrored to durable storage.
type Snapshot struct {
	Users    []User    `json:"users" yaml:"users"`
	Groups   []Group   `json:"groups" yaml:"groups"`
	Expenses []Expense `json:"expenses" yaml:"expenses"`

	// CurrentGroupID is the active group when the snapshot was taken.
	CurrentGroupID string `json:"currentGroupId,omitempty" yaml:"currentGroupId,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{CurrentGroupID: s.CurrentGroupID}
	if s.Users != nil {
		out.Users = make([]User, len(s.Users))
		for i, u := range s.Users {
			out.Users[i] = u.Clone()
		}
	}
	if s.Groups != nil {
		out.Groups = make([]Group, len(s.Groups))
		for i, g := range s.Groups {
			out.Groups[i] = g.Clone()
		}
	}
	if s.Expenses != nil {
		out.Expenses = make([]Expense, len(s.Expenses))
		for i, e := range s.Expenses {
			out.Expenses[i] = e.Clone()
		}
	}
	return out
}
