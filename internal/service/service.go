package service

import (
	"context"

	"webauth/internal/models"
	"webauth/internal/repository"
)

// Auth exposes the credential flows: registration and login.
type Auth interface {
	// Register creates an account. It never authenticates the caller.
	Register(ctx context.Context, f models.RegisterForm) error
	// Login verifies credentials and returns the authenticated username.
	Login(ctx context.Context, identifier, password string) (string, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Auth
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, hasher PasswordHasher) *Service {
	return &Service{
		Auth: NewAuthService(repos.Users, hasher),
	}
}
