// Package services contains the server-side business logic: credential
// storage, the token revocation list, the authenticator that issues and
// validates access tokens, and contact management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/cryptox"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/server/models"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/repomanager"
)

// CredentialStore owns user records and their password hashes. Plaintext
// passwords never reach the repository.
type CredentialStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.Hasher
	now         func() time.Time
}

// NewCredentialStore returns a store hashing passwords with h.
func NewCredentialStore(db *sql.DB, m repomanager.RepositoryManager, h *cryptox.Hasher) *CredentialStore {
	return &CredentialStore{db: db, repomanager: m, hasher: h, now: time.Now}
}

// Create stores a new user. A taken username yields common.ErrorAlreadyExists
// and nothing is written.
func (s *CredentialStore) Create(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" {
		return nil, common.NewValidationError("username", "Username cannot be empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Users(tx).Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Verify checks password against the stored hash. An unknown username yields
// common.ErrorNotFound after a dummy comparison, a wrong password
// common.ErrorUnauthorized.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error comparing password: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Get returns the user with userID or common.ErrorNotFound.
func (s *CredentialStore) Get(ctx context.Context, userID int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

// HashPassword hashes password without storing it, so callers can keep
// bcrypt out of an open transaction.
func (s *CredentialStore) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// SetPasswordHash replaces the stored hash using db, which may be a transaction.
func (s *CredentialStore) SetPasswordHash(ctx context.Context, db dbx.DBTX, userID int64, hash string) error {
	return s.repomanager.Users(db).UpdatePasswordHash(ctx, userID, hash)
}

// SetPassword hashes password and stores it for userID.
func (s *CredentialStore) SetPassword(ctx context.Context, userID int64, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.SetPasswordHash(ctx, tx, userID, hash)
	})
}
