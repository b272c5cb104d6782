// Package users declares the credential storage contract and its SQL
// implementation.
package users

import (
	"context"

	"github.com/MLowen1/basicwebapp/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// UpdatePasswordHash returns common.ErrorNotFound when no row matched.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
