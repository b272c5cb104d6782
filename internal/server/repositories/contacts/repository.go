// Package contacts persists address book entries.
package contacts

import (
	"context"

	"github.com/MLowen1/basicwebapp/internal/server/models"
)

// Repository defines contact CRUD. Missing rows yield common.ErrorNotFound
// and a duplicate email yields common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
	List(ctx context.Context) ([]models.Contact, error)
	Update(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
}
