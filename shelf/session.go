package shelf

import (
	"fmt"
	"strings"
)

// SessionState tracks where the user is in the login flow.
type SessionState int

const (
	LoggedOut SessionState = iota
	Active
)

// Session gates entry to the collection workflow. It validates credentials
// against the store and hands out the authenticated identity (the username).
// Registration is reachable only while logged out and never auto-logs-in.
type Session struct {
	db       *Database
	state    SessionState
	identity string
}

// NewSession starts in the LoggedOut state.
func NewSession(db *Database) *Session {
	return &Session{db: db, state: LoggedOut}
}

func (s *Session) State() SessionState { return s.state }

// Identity returns the authenticated username, or "" while logged out.
func (s *Session) Identity() string { return s.identity }

// Authenticate checks the credentials and transitions to Active on success.
// An unknown username is ErrNotFound; a password mismatch is
// ErrBadCredential. Passwords are compared as plain text.
func (s *Session) Authenticate(username, password string) error {
	if s.state != LoggedOut {
		return fmt.Errorf("already logged in as %q", s.identity)
	}

	account, err := s.db.GetAccount(username)
	if err != nil {
		return err
	}
	if account.Password != password {
		return fmt.Errorf("account %q: %w", username, ErrBadCredential)
	}

	s.identity = account.Username
	s.state = Active
	return nil
}

// Register creates a new account. Name, email, username and password are
// required; the favorite genre is optional. The session stays LoggedOut —
// the caller logs in afterwards with the new credentials.
func (s *Session) Register(name, email, username, password, genre string) error {
	if s.state != LoggedOut {
		return fmt.Errorf("cannot register while logged in")
	}

	required := []struct {
		field, value string
	}{
		{"name", name},
		{"email", email},
		{"username", username},
		{"password", password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s: %w", r.field, ErrMissingField)
		}
	}

	return s.db.CreateAccount(&Account{
		Username:      username,
		Password:      password,
		Name:          name,
		Email:         email,
		FavoriteGenre: genre,
	})
}

// Logout returns the session to LoggedOut.
func (s *Session) Logout() {
	s.identity = ""
	s.state = LoggedOut
}
