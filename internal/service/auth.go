// Package service implements the business logic of the API: account
// registration and login, and ownership-scoped item CRUD. Storage, password
// hashing, and token signing are injected capabilities, so every rule here
// is testable against in-memory fakes.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dkolesni/itemstash/internal/apperror"
	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/logger"
	"github.com/dkolesni/itemstash/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, usr *user.User) (string, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) error
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService registers users and exchanges valid credentials for bearer
// tokens.
type AuthService struct {
	db     userKeeper
	hasher passwordHasher
	tokens tokenIssuer
}

// NewAuth wires an AuthService from its collaborators.
func NewAuth(db userKeeper, hasher passwordHasher, tokens tokenIssuer) *AuthService {
	return &AuthService{
		db:     db,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register hashes the password and persists a new user. A duplicate email is
// reported as a conflict; the caller receives no token and no echo of the
// password.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return apperror.NewInternalError("Internal server error", err)
	}

	_, err = s.db.CreateUser(ctx, &user.User{
		Email:        email,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return apperror.NewConflictError("User already exists")
	}
	if err != nil {
		logger.Log.Errorln("failed to create user:", zap.Error(err))

		return apperror.NewInternalError("Internal server error", err)
	}

	return nil
}

// Login verifies the credentials and issues a signed token embedding the
// user's id. An unknown email and a wrong password both produce the same
// "Invalid credentials" error, so a caller cannot tell which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	usr, err := s.db.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperror.NewUnauthorizedError("Invalid credentials", nil)
	}
	if err != nil {
		logger.Log.Errorln("failed to look up user by email:", zap.Error(err))

		return "", apperror.NewInternalError("Internal server error", err)
	}

	if err := s.hasher.Verify(usr.PasswordHash, password); err != nil {
		return "", apperror.NewUnauthorizedError("Invalid credentials", nil)
	}

	tokenString, err := s.tokens.Issue(usr.ID)
	if err != nil {
		return "", apperror.NewInternalError("Internal server error", err)
	}

	return tokenString, nil
}
