package models

// User represents a person tracked by the ledger.
// The ID never changes once assigned; profile fields may be edited by the
// owning user only.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the user.
	Name string `json:"name" yaml:"name"`

	// Email is the user's contact address.
	Email string `json:"email" yaml:"email"`

	// Avatar is an optional image reference (URL).
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`

	// Preferences holds per-user settings such as the display currency.
	Preferences map[string]string `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// Profile carries the editable fields of a User.
type Profile struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Avatar      string            `json:"avatar,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Clone returns a copy of the user that does not share the preference map.
func (u User) Clone() User {
	if u.Preferences != nil {
		prefs := make(map[string]string, len(u.Preferences))
		for k, v := range u.Preferences {
			prefs[k] = v
		}
		u.Preferences = prefs
	}
	return u
}
