package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

var (
	ErrEmailExists = errors.New("user: email already registered")
	ErrNotFound    = errors.New("user: not found")
)

// Store is the flat-file set of accounts: one JSON array, replaced
// atomically on every signup. Reads are served from an in-memory copy;
// writes re-read the file under exclusive locks (writeMu for goroutines of
// this process, flock for other processes) so two signups racing on the
// same email cannot both win.
type Store struct {
	path    string
	writeMu sync.Mutex
	lock    *flock.Flock

	mu    sync.RWMutex
	users []User
}

func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return nil, fmt.Errorf("user: create store dir: %w", err)
	}
	users, err := readAll(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, lock: flock.New(path + ".lock"), users: users}, nil
}

// Create persists a new account. Email uniqueness is checked against the
// freshly re-read file, not the cached copy.
func (s *Store) Create(u User) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("user: lock store: %w", err)
	}
	defer s.lock.Unlock()

	users, err := readAll(s.path)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == u.Email {
			return ErrEmailExists
		}
	}
	users = append(users, u)

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("user: encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("user: write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("user: replace store: %w", err)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// GetByEmail looks an account up by its already-normalized email.
func (s *Store) GetByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// Len reports the number of registered accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func readAll(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user: read store: %w", err)
	}
	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("user: decode store: %w", err)
	}
	return users, nil
}
