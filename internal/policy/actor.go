package policy

// Actor is the authorization view of a logged-in user: its role flags plus,
// when the user owns a faculty profile, that profile's identity and
// department. Resolved once per request and treated as immutable.
type Actor struct {
	UserID    uint
	Admin     bool
	Principal bool
	Hod       bool
	Faculty   bool

	// Set only when the user owns a faculty profile.
	FacultyID    uint
	DepartmentID uint
}

// HasProfile reports whether the actor owns a faculty profile of its own.
func (a Actor) HasProfile() bool { return a.FacultyID != 0 }
