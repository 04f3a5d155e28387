package repository

import (
	"context"
	"database/sql"
	"errors"

	"webauth/internal/models"
	dbx "webauth/internal/repository/db"
)

// Duplicate-key errors reported by Create when a store-level unique
// constraint rejects the insert. The constraint is the source of truth
// for uniqueness; the existence probes only produce friendlier flow.
var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)

type Users interface {
	// FindByIdentifier matches identifier against username OR email.
	// Returns (nil, nil) when no user matches.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create inserts a new user and returns its ID. A unique-constraint
	// violation surfaces as ErrDuplicateUsername or ErrDuplicateEmail.
	Create(ctx context.Context, username, email, passwordHash string) (int, error)
}

type Repository struct {
	Users Users
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
	}
}

// InitDB opens the backing sqlite database and ensures the schema.
func InitDB(path string) (*sql.DB, error) {
	return dbx.InitDB(path)
}
