package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sowlstudios/admin-console/internal/model"
)

// Store owns the process-wide authentication state: the bearer token and the
// admin profile, persisted to a fixed file so a restart picks the session
// back up. Token and profile are always written as one unit under the lock.
type Store struct {
	mu   sync.Mutex
	path string
	sess model.Session
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Restore loads a previously persisted session. A missing file simply means
// no session; the caller routes to login.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file is treated as no session.
		log.Warn().Err(err).Str("path", s.path).Msg("discarding unreadable session file")
		return nil
	}

	s.sess = sess
	return nil
}

// Set records a freshly authenticated session and persists it.
func (s *Store) Set(token string, user model.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = model.Session{Token: token, User: user}
	return s.persistLocked()
}

// Clear drops the in-memory session and removes the persisted copy. Safe to
// call when no session exists.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = model.Session{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error().Err(err).Str("path", s.path).Msg("failed to remove session file")
	}
}

// Token returns the current bearer token, or empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Token
}

// User returns the stored admin profile. The second result is false when no
// session is active.
func (s *Store) User() (model.AdminUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.User, s.sess.Token != ""
}

// Authenticated reports whether a token is currently held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	// Write-then-rename so a crash never leaves a torn session file.
	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
