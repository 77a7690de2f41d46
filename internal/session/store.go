// Package session persists the authenticated session between runs.
// It mirrors the two entries the product has always stored client-side:
// the opaque token and the serialized user profile.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gujitrio/ping/pkg/domain"
)

// Store reads and writes the persisted session. All session access goes
// through this interface so the API client and the views never touch
// global state directly.
type Store interface {
	// Token returns the bearer token, or "" when logged out.
	Token() string
	// User returns the stored profile; ok is false when none is stored.
	User() (domain.User, bool)
	// Save persists the session atomically (token first, then profile).
	Save(s domain.Session) error
	// Clear removes both entries. Clearing an empty store is a no-op.
	Clear() error
}

const (
	dirName   = ".ping"
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStore keeps the session under ~/.ping: a token file (mode 0600) and
// a user.json profile. The PING_TOKEN env var overrides the file token.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at ~/.ping.
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	return &FileStore{dir: filepath.Join(home, dirName)}, nil
}

// NewFileStoreAt returns a store rooted at dir. Used by tests.
func NewFileStoreAt(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) Token() string {
	if tok := os.Getenv("PING_TOKEN"); tok != "" {
		return tok
	}
	data, err := os.ReadFile(filepath.Join(f.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (f *FileStore) User() (domain.User, bool) {
	data, err := os.ReadFile(filepath.Join(f.dir, userFile))
	if err != nil {
		return domain.User{}, false
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.User{}, false
	}
	return u, true
}

func (f *FileStore) Save(s domain.Session) error {
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("create %s dir: %w", dirName, err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, tokenFile), []byte(s.Token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	data, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, userFile), data, 0600); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// Memory is an in-memory Store for tests and demo mode.
type Memory struct {
	mu      sync.RWMutex
	session domain.Session
	hasUser bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

func (m *Memory) User() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.User, m.hasUser
}

func (m *Memory) Save(s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.hasUser = true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = domain.Session{}
	m.hasUser = false
	return nil
}
