package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/logging"
	"github.com/MLowen1/basicwebapp/internal/server/auth"
	"github.com/MLowen1/basicwebapp/internal/server/models"
)

// Authenticator ties credentials, tokens and revocation together. Errors it
// returns are always one of the common sentinels; storage details are
// logged and reported as common.ErrorInternal.
type Authenticator struct {
	db          *sql.DB
	credentials *CredentialStore
	revocations *RevocationList
	tokens      *auth.TokenManager
	resets      *auth.ResetTokenManager
	logger      logging.Logger
}

// NewAuthenticator wires the stores and token managers the auth flows use.
func NewAuthenticator(
	db *sql.DB,
	credentials *CredentialStore,
	revocations *RevocationList,
	tokens *auth.TokenManager,
	resets *auth.ResetTokenManager,
	logger logging.Logger,
) *Authenticator {
	return &Authenticator{
		db:          db,
		credentials: credentials,
		revocations: revocations,
		tokens:      tokens,
		resets:      resets,
		logger:      logger.With("module", "authenticator"),
	}
}

func requireCredentials(username, password string) error {
	if username == "" || password == "" {
		return common.NewValidationError("credentials", "Username and password are required")
	}
	return nil
}

// Issue mints an access token for user.
func (a *Authenticator) Issue(ctx context.Context, user *models.User) (*auth.AccessToken, error) {
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		a.logger.Error(ctx, "token signing failed", "user_id", user.ID, "err", err)
		return nil, common.ErrorInternal
	}
	return token, nil
}

// Register creates the account and logs it in.
func (a *Authenticator) Register(ctx context.Context, username, password string) (*models.User, *auth.AccessToken, error) {
	if err := requireCredentials(username, password); err != nil {
		return nil, nil, err
	}

	user, err := a.credentials.Create(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, err
		}
		a.logger.Error(ctx, "registration failed", "username", username, "err", err)
		return nil, nil, common.ErrorInternal
	}

	token, err := a.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login returns common.ErrorUnauthorized for an unknown user and for a wrong
// password alike.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*models.User, *auth.AccessToken, error) {
	if err := requireCredentials(username, password); err != nil {
		return nil, nil, err
	}

	user, err := a.credentials.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnauthorized) {
			return nil, nil, common.ErrorUnauthorized
		}
		a.logger.Error(ctx, "login failed", "err", err)
		return nil, nil, common.ErrorInternal
	}

	token, err := a.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Logout revokes the presented token. Revoking an already revoked token
// succeeds.
func (a *Authenticator) Logout(ctx context.Context, claims *auth.Claims) error {
	err := a.revocations.Revoke(ctx, claims.ID, claims.ExpiresAtTime())
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		a.logger.Error(ctx, "revocation failed", "jti", claims.ID, "err", err)
		return common.ErrorInternal
	}
	return nil
}

// Validate checks signature and format, then expiry, then revocation, and
// reports the first failure.
func (a *Authenticator) Validate(ctx context.Context, raw string) (*auth.Claims, error) {
	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.logger.Error(ctx, "revocation lookup failed", "jti", claims.ID, "err", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	return claims, nil
}

// CurrentUser resolves the subject of validated claims.
func (a *Authenticator) CurrentUser(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return a.lookupUser(ctx, userID)
}

func (a *Authenticator) lookupUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := a.credentials.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		a.logger.Error(ctx, "user lookup failed", "user_id", userID, "err", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// IssueResetToken mints a single-use password reset token for userID.
func (a *Authenticator) IssueResetToken(ctx context.Context, userID int64) (*auth.AccessToken, error) {
	if _, err := a.lookupUser(ctx, userID); err != nil {
		return nil, err
	}

	token, err := a.resets.Issue(userID)
	if err != nil {
		a.logger.Error(ctx, "reset token signing failed", "user_id", userID, "err", err)
		return nil, common.ErrorInternal
	}

	a.logger.Info(ctx, "reset token issued", "user_id", userID, "jti", token.JTI)
	return token, nil
}

// ResetPassword redeems a reset token. The new hash and the revocation of
// the reset token commit together, so a token works at most once.
func (a *Authenticator) ResetPassword(ctx context.Context, raw, newPassword string) error {
	if raw == "" || newPassword == "" {
		return common.NewValidationError("reset", "Token and new password are required")
	}

	claims, err := a.resets.Parse(raw)
	if err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return err
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		a.logger.Error(ctx, "revocation lookup failed", "jti", claims.ID, "err", err)
		return common.ErrorInternal
	}
	if revoked {
		return common.ErrTokenRevoked
	}

	hash, err := a.credentials.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return err
		}
		a.logger.Error(ctx, "password hashing failed", "err", err)
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := a.credentials.SetPasswordHash(ctx, tx, userID, hash); err != nil {
			return err
		}
		return a.revocations.RevokeWith(ctx, tx, claims.ID, claims.ExpiresAtTime())
	})

	switch {
	case err == nil:
		a.logger.Info(ctx, "password reset", "user_id", userID)
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		// a concurrent request redeemed the same token first
		return common.ErrTokenRevoked
	default:
		a.logger.Error(ctx, "password reset failed", "user_id", userID, "err", err)
		return common.ErrorInternal
	}
}
