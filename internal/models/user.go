package models

// User represents an account. Passwords are stored as opaque plaintext
// strings and compared byte-for-byte; hashing is out of scope.
// The JSON field names are the persisted snapshot format and must not change.
type User struct {
	ID       int    `json:"Id"`
	Username string `json:"Username"`
	Password string `json:"Password"`
	Role     Role   `json:"Role"`

	// Tasks is a legacy embedded task list carried through snapshots.
	// The task store is authoritative; this list is preserved, not maintained.
	Tasks []Task `json:"Tasks,omitempty"`
}

// Clone returns an independent copy of the user, including the
// embedded task list.
func (u User) Clone() User {
	out := u
	if u.Tasks != nil {
		out.Tasks = make([]Task, len(u.Tasks))
		for i, t := range u.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	return out
}
