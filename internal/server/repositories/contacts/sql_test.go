package contacts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	createQ = `(?s)^INSERT\s+INTO\s+contacts\s*\(first_name,\s*last_name,\s*email\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id\s*$`
	getQ    = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*email\s+FROM\s+contacts\s+WHERE\s+id\s*=\s*\$1\s*$`
	listQ   = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*email\s+FROM\s+contacts\s+ORDER\s+BY\s+id\s*$`
	updateQ = `(?s)^UPDATE\s+contacts\s+SET\s+first_name\s*=\s*\$1,\s*last_name\s*=\s*\$2,\s*email\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$4\s+RETURNING\s+id\s*$`
	deleteQ = `(?s)^DELETE\s+FROM\s+contacts\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var contactCols = []string{"id", "first_name", "last_name", "email"}

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(createQ).
		WithArgs("Ada", "Lovelace", "ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(createQ).
		WithArgs("Ada", "Byron", "ada@example.com").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	got, err := repo.Create(context.Background(), &models.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = repo.Create(context.Background(), &models.Contact{FirstName: "Ada", LastName: "Byron", Email: "ada@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(getQ).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(contactCols).AddRow(int64(1), "Ada", "Lovelace", "ada@example.com"))
	mock.ExpectQuery(getQ).WithArgs(int64(2)).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(getQ).WithArgs(int64(3)).WillReturnError(errors.New("db err"))

	got, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &models.Contact{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, got)

	_, err = repo.Get(context.Background(), 2)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Get(context.Background(), 3)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db err`), err.Error())
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows(contactCols).
		AddRow(int64(1), "Ada", "Lovelace", "ada@example.com").
		AddRow(int64(2), "Alan", "Turing", "alan@example.com"))
	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows(contactCols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Turing", got[1].LastName)

	empty, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty, "empty list must encode as [] not null")
	assert.Empty(t, empty)
}

func TestList_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows(contactCols).
		AddRow("not-a-number", "Ada", "Lovelace", "ada@example.com"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(updateQ).
		WithArgs("Ada", "King", "ada@example.com", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(updateQ).
		WithArgs("X", "Y", "z@example.com", int64(9)).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), &models.Contact{ID: 1, FirstName: "Ada", LastName: "King", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "King", got.LastName)

	_, err = repo.Update(context.Background(), &models.Contact{ID: 9, FirstName: "X", LastName: "Y", Email: "z@example.com"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQ).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQ).WithArgs(int64(3)).WillReturnError(errors.New("db err"))

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 2), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), 3), "db error")
}
