package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"webauth/internal/models"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`
	selectUserByIdentSQL    = `SELECT id, username, email, password_hash FROM users WHERE username = ? OR email = ?`
	countUsersByUsernameSQL = `SELECT COUNT(*) FROM users WHERE username = ?`
	countUsersByEmailSQL    = `SELECT COUNT(*) FROM users WHERE email = ?`
)

// Create inserts a new user and returns its ID. When the users table's
// unique indexes reject the row, the sqlite extended result code is
// translated into the matching duplicate error.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, email, passwordHash)
	if err != nil {
		if dup := duplicateErr(err); dup != nil {
			return 0, dup
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// FindByIdentifier fetches a user whose username or email equals
// identifier. Returns (nil, nil) if not found.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByIdentSQL, identifier, identifier).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", identifier, err)
	}
	return &u, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, countUsersByUsernameSQL, username)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, countUsersByEmailSQL, email)
}

func (r *UserRepository) exists(ctx context.Context, query, arg string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return false, fmt.Errorf("count users by %q: %w", arg, err)
	}
	return n > 0, nil
}

// duplicateErr maps a SQLITE_CONSTRAINT_UNIQUE failure to the matching
// duplicate sentinel, using the offending column named in the driver
// message. Returns nil for any other error.
func duplicateErr(err error) error {
	var serr *sqlite.Error
	if !errors.As(err, &serr) || serr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return nil
	}
	switch {
	case strings.Contains(serr.Error(), "users.username"):
		return ErrDuplicateUsername
	case strings.Contains(serr.Error(), "users.email"):
		return ErrDuplicateEmail
	default:
		return nil
	}
}
