// Package tokenblocklist stores the jti of every revoked token.
package tokenblocklist

import (
	"context"
	"time"

	"github.com/MLowen1/basicwebapp/internal/server/models"
)

// Repository defines operations on the revocation list.
type Repository interface {
	// Add records a revoked token and fills its ID. A jti that is already
	// present yields common.ErrorAlreadyExists.
	Add(ctx context.Context, token *models.RevokedToken) error

	// Exists reports whether jti has been revoked.
	Exists(ctx context.Context, jti string) (bool, error)

	// PurgeExpired deletes entries whose token expired before the given time
	// and returns the number of rows removed.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
