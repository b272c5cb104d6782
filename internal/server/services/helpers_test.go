package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/MLowen1/basicwebapp/internal/cryptox"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/logging"
	"github.com/MLowen1/basicwebapp/internal/server/auth"
	"github.com/MLowen1/basicwebapp/internal/server/models"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/contacts"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/repomanager"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/tokenblocklist"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type testEnv struct {
	db          *sql.DB
	manager     repomanager.RepositoryManager
	credentials *CredentialStore
	revocations *RevocationList
	tokens      *auth.TokenManager
	resets      *auth.ResetTokenManager
	auth        *Authenticator
	contacts    *ContactService
}

// newTestEnv wires every service over a migrated SQLite file.
func newTestEnv(t *testing.T, accessTTL time.Duration) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := dbx.Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.NewRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	return newEnvWith(t, db, m, accessTTL)
}

func newEnvWith(t *testing.T, db *sql.DB, m repomanager.RepositoryManager, accessTTL time.Duration) *testEnv {
	t.Helper()

	hasher, err := cryptox.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		db:          db,
		manager:     m,
		credentials: NewCredentialStore(db, m, hasher),
		revocations: NewRevocationList(db, m),
		tokens:      auth.NewTokenManager(testSecret, accessTTL),
		resets:      auth.NewResetTokenManager(testSecret, 30*time.Minute),
	}
	env.auth = NewAuthenticator(db, env.credentials, env.revocations, env.tokens, env.resets, discardLogger())
	env.contacts = NewContactService(db, m, discardLogger())
	return env
}

// fakeRepoManager hands out the same fake repositories regardless of the
// DBTX they are bound to.
type fakeRepoManager struct {
	users     *fakeUsers
	blocklist *fakeBlocklist
	contacts  *fakeContacts
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: &fakeUsers{}, blocklist: &fakeBlocklist{}, contacts: &fakeContacts{}}
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return f.users }
func (f *fakeRepoManager) TokenBlocklist(dbx.DBTX) tokenblocklist.Repository {
	return f.blocklist
}
func (f *fakeRepoManager) Contacts(dbx.DBTX) contacts.Repository { return f.contacts }

type fakeUsers struct {
	user      *models.User
	createErr error
	getErr    error
	updateErr error
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return f.user, f.getErr
}

func (f *fakeUsers) GetUserByID(context.Context, int64) (*models.User, error) {
	return f.user, f.getErr
}

func (f *fakeUsers) UpdatePasswordHash(context.Context, int64, string) error {
	return f.updateErr
}

type fakeBlocklist struct {
	added     []string
	revoked   bool
	addErr    error
	existsErr error
}

func (f *fakeBlocklist) Add(_ context.Context, t *models.RevokedToken) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, t.JTI)
	return nil
}

func (f *fakeBlocklist) Exists(context.Context, string) (bool, error) {
	return f.revoked, f.existsErr
}

func (f *fakeBlocklist) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeContacts struct {
	err error
}

func (f *fakeContacts) Create(context.Context, *models.Contact) (*models.Contact, error) {
	return nil, f.err
}
func (f *fakeContacts) Get(context.Context, int64) (*models.Contact, error) { return nil, f.err }
func (f *fakeContacts) List(context.Context) ([]models.Contact, error)      { return nil, f.err }
func (f *fakeContacts) Update(context.Context, *models.Contact) (*models.Contact, error) {
	return nil, f.err
}
func (f *fakeContacts) Delete(context.Context, int64) error { return f.err }
