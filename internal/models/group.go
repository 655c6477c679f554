package models

// Group is a named list of users that share expenses.
type Group struct {
	// ID is the unique identifier for the group.
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the group (e.g., "Apartment 2024").
	Name string `json:"name" yaml:"name"`

	// Members holds user IDs in join order. Each ID appears at most once.
	Members []string `json:"members" yaml:"members"`
}

// HasMember reports whether userID belongs to the group.
func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Clone returns a copy of the group with its own member slice.
func (g Group) Clone() Group {
	g.Members = append([]string(nil), g.Members...)
	return g
}
