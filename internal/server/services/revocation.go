package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/server/models"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/repomanager"
)

// RevocationList is the persisted set of revoked jti values. Every lookup
// goes to the database so all server instances see a revocation as soon as
// it commits.
type RevocationList struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewRevocationList returns a revocation list stored through m.
func NewRevocationList(db *sql.DB, m repomanager.RepositoryManager) *RevocationList {
	return &RevocationList{db: db, repomanager: m, now: time.Now}
}

// Revoke adds jti in its own transaction. Revoking the same jti twice yields
// common.ErrorAlreadyExists.
func (r *RevocationList) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return r.RevokeWith(ctx, tx, jti, expiresAt)
	})
}

// RevokeWith adds jti using db, which may be a caller's transaction.
func (r *RevocationList) RevokeWith(ctx context.Context, db dbx.DBTX, jti string, expiresAt time.Time) error {
	entry := &models.RevokedToken{
		JTI:       jti,
		CreatedAt: r.now().UTC().Truncate(time.Second),
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
	}
	return r.repomanager.TokenBlocklist(db).Add(ctx, entry)
}

// IsRevoked reports whether jti is on the list.
func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return r.repomanager.TokenBlocklist(r.db).Exists(ctx, jti)
}

// Prune drops entries whose token expired before the given time. Such
// tokens already fail validation on expiry, so removing them changes nothing.
func (r *RevocationList) Prune(ctx context.Context, before time.Time) (int64, error) {
	return r.repomanager.TokenBlocklist(r.db).PurgeExpired(ctx, before.UTC())
}
