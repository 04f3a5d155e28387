package service

import (
	"context"
	"errors"
	"fmt"

	"webauth/internal/models"
	"webauth/internal/repository"
	"webauth/internal/validation"
)

// ErrInvalidCredentials covers both an unknown identifier and a wrong
// password. Callers must not distinguish the two, so a login probe
// cannot reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	hasher PasswordHasher
}

func NewAuthService(users repository.Users, hasher PasswordHasher) *AuthService {
	return &AuthService{users: users, hasher: hasher}
}

var _ Auth = (*AuthService)(nil)

// Register validates the form, checks uniqueness, hashes the password
// and inserts the user. Validation and duplicate errors carry the
// user-facing message; anything else is an internal failure. The
// existence probes give friendly errors early, but the store's unique
// constraint is what actually guarantees uniqueness — a constraint
// violation on insert maps to the same duplicate errors.
func (s *AuthService) Register(ctx context.Context, f models.RegisterForm) error {
	if err := validation.ValidateRegistration(f); err != nil {
		return err
	}

	taken, err := s.users.UsernameExists(ctx, f.Username)
	if err != nil {
		return fmt.Errorf("check username %q: %w", f.Username, err)
	}
	if taken {
		return repository.ErrDuplicateUsername
	}

	taken, err = s.users.EmailExists(ctx, f.Email)
	if err != nil {
		return fmt.Errorf("check email %q: %w", f.Email, err)
	}
	if taken {
		return repository.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(f.Password)
	if err != nil {
		return fmt.Errorf("hash password for %q: %w", f.Username, err)
	}

	if _, err := s.users.Create(ctx, f.Username, f.Email, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) || errors.Is(err, repository.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("create user %q: %w", f.Username, err)
	}
	return nil
}

// Login resolves identifier against username or email and verifies the
// password. Unknown identifier and wrong password both yield
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, error) {
	u, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return "", fmt.Errorf("find user %q: %w", identifier, err)
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password for %q: %w", identifier, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	return u.Username, nil
}
