package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_CreateAndVerify(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	ctx := context.Background()

	user, err := env.credentials.Create(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	got, err := env.credentials.Verify(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.credentials.Verify(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = env.credentials.Verify(ctx, "bob", "s3cret")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.credentials.Create(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCredentialStore_Create_Validation(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	ctx := context.Background()

	_, err := env.credentials.Create(ctx, "", "pw")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.credentials.Create(ctx, "carol", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestCredentialStore_Create_WrapsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := newFakeRepoManager()
	m.users.createErr = errors.New("disk full")
	env := newEnvWith(t, db, m, time.Hour)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = env.credentials.Create(context.Background(), "dave", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating user")
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialStore_SetPassword(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	ctx := context.Background()

	user, err := env.credentials.Create(ctx, "erin", "old")
	require.NoError(t, err)

	require.NoError(t, env.credentials.SetPassword(ctx, user.ID, "new"))

	_, err = env.credentials.Verify(ctx, "erin", "new")
	require.NoError(t, err)
	_, err = env.credentials.Verify(ctx, "erin", "old")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	err = env.credentials.SetPassword(ctx, user.ID+100, "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
