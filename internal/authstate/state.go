package authstate

// State is the authentication status of a session as seen by this process.
type State string

const (
	// StateUnknown means the authentication subsystem has not yet decided.
	StateUnknown State = "unknown"
	// StateAuthed means the session belongs to an authenticated user.
	StateAuthed State = "authed"
	// StateNotAuthed means the session is definitively unauthenticated.
	StateNotAuthed State = "not-authed"
)

// IsTerminal reports whether no further state resolution is expected.
// StateUnknown is the only non-terminal value.
func (s State) IsTerminal() bool {
	return s == StateAuthed || s == StateNotAuthed
}
