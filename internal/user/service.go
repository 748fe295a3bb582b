package user

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	ErrInvalidEmail = errors.New("user: invalid email address")
	ErrWeakPassword = errors.New("user: password must be at least 8 characters")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not distinguish the two, to avoid user enumeration.
	ErrInvalidCredentials = errors.New("user: invalid email or password")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service implements signup and login on top of the store.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// NormalizeEmail trims and lowercases, making lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new account and returns it.
func (s *Service) Signup(email, password string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: hash password: %w", err)
	}

	u := User{
		ID:           newID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAtUtc: now.UTC().UnixMilli(),
	}
	if err := s.store.Create(u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to persist user")
		return nil, fmt.Errorf("service: save user: %w", err)
	}

	log.Info().Str("user_id", u.ID).Msg("service: user registered")
	return &u, nil
}

// Login verifies credentials and returns the account. Unknown email and
// hash mismatch fail identically.
func (s *Service) Login(email, password string) (*User, error) {
	u, err := s.store.GetByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// newID returns "U-" plus 16 hex characters.
func newID() string {
	id := uuid.Must(uuid.NewV4())
	return "U-" + hex.EncodeToString(id.Bytes()[:8])
}
