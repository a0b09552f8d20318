// package session holds the authenticated user's credentials for the
// lifetime of the client, persisted across restarts.
package session

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/wissl-audio/trill/internal/store"
)

// Session is the credential state created by a successful login.
type Session struct {
	Token  string
	UserID int64
	Admin  bool
}

// Persisted key names, mirroring what the server hands out at login.
const (
	keyToken    = "sessionId"
	keyUserID   = "userId"
	keyAuth     = "auth"
	keyDeviceID = "deviceId"
)

// Store keeps the active session in memory and mirrors it into the
// persistent KV store. The in-memory copy is the source of truth while
// the client runs.
type Store struct {
	kv      *store.KV
	logger  *log.Logger
	current *Session
}

// NewStore creates a session store over the given KV store.
func NewStore(kv *store.KV, logger *log.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Restore loads a persisted session, if any. Returns false when no
// session was saved, in which case the caller must run the login or
// first-user flow.
func (s *Store) Restore() (Session, bool) {
	token, found, err := s.kv.Get(keyToken)
	if err != nil || !found || token == "" {
		if err != nil {
			s.logger.Warn("failed to read persisted session", "err", err)
		}
		return Session{}, false
	}

	sess := Session{Token: token}
	if v, found, _ := s.kv.Get(keyUserID); found {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			sess.UserID = id
		}
	}
	if v, found, _ := s.kv.Get(keyAuth); found {
		sess.Admin = v == "1"
	}

	s.current = &sess
	return sess, true
}

// Establish records a fresh session after login or first-user
// creation. Persistence failures are non-fatal: the session remains
// usable for the current run.
func (s *Store) Establish(sess Session) {
	s.current = &sess

	auth := "2"
	if sess.Admin {
		auth = "1"
	}
	for key, value := range map[string]string{
		keyToken:  sess.Token,
		keyUserID: strconv.FormatInt(sess.UserID, 10),
		keyAuth:   auth,
	} {
		if err := s.kv.Set(key, value); err != nil {
			s.logger.Warn("failed to persist session", "key", key, "err", err)
		}
	}
}

// Clear removes the session from memory and from persistent storage.
// Called on logout and on fatal authentication errors.
func (s *Store) Clear() {
	s.current = nil
	for _, key := range []string{keyToken, keyUserID, keyAuth} {
		if err := s.kv.Delete(key); err != nil {
			s.logger.Warn("failed to clear persisted session", "key", key, "err", err)
		}
	}
}

// Current returns the active session.
func (s *Store) Current() (Session, bool) {
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token implements [api.TokenSource]. Returns "" when logged out.
func (s *Store) Token() string {
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Admin reports whether the active session belongs to an
// administrator.
func (s *Store) Admin() bool {
	return s.current != nil && s.current.Admin
}

// DeviceID returns the stable identifier for this client install,
// creating and persisting one on first use.
func (s *Store) DeviceID(generate func() string) string {
	if v, found, _ := s.kv.Get(keyDeviceID); found && v != "" {
		return v
	}
	id := generate()
	if err := s.kv.Set(keyDeviceID, id); err != nil {
		s.logger.Warn("failed to persist device id", "err", err)
	}
	return id
}
