package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email).Scan(&c.ID); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Contact, error) {
	query := `
		SELECT id, first_name, last_name, email
		FROM contacts
		WHERE id = $1
	`
	c := &models.Contact{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Contact, error) {
	query := `
		SELECT id, first_name, last_name, email
		FROM contacts
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = $3
		WHERE id = $4
		RETURNING id
	`
	if err := r.db.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.Email, c.ID).Scan(&c.ID); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM contacts
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
