package tokenblocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/server/models"
)

// SQLRepository implements Repository over dbx.DBTX (a *sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Add(ctx context.Context, token *models.RevokedToken) error {
	query := `
		INSERT INTO token_blocklist (jti, created_at, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, token.JTI, token.CreatedAt, token.ExpiresAt).Scan(&token.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Exists(ctx context.Context, jti string) (bool, error) {
	query := `
		SELECT COUNT(1)
		FROM token_blocklist
		WHERE jti = $1
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, jti).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM token_blocklist
		WHERE expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
