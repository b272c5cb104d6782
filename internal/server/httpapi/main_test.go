package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/cryptox"
	"github.com/MLowen1/basicwebapp/internal/dbx"
	"github.com/MLowen1/basicwebapp/internal/logging"
	"github.com/MLowen1/basicwebapp/internal/server/auth"
	"github.com/MLowen1/basicwebapp/internal/server/openverse"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/repomanager"
	"github.com/MLowen1/basicwebapp/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeImages struct {
	got openverse.Query
	res *openverse.SearchResult
	err error
}

func (f *fakeImages) Search(_ context.Context, q openverse.Query) (*openverse.SearchResult, error) {
	f.got = q
	return f.res, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testServer struct {
	handler http.Handler
	images  *fakeImages
	tokens  *auth.TokenManager
	db      *sql.DB
}

// newTestServer wires the real services over a migrated SQLite file.
func newTestServer(t *testing.T, accessTTL time.Duration) *testServer {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := dbx.Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.NewRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	hasher, err := cryptox.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	creds := services.NewCredentialStore(db, m, hasher)
	revs := services.NewRevocationList(db, m)
	tokens := auth.NewTokenManager("test-secret", accessTTL)
	authn := services.NewAuthenticator(db, creds, revs,
		tokens,
		auth.NewResetTokenManager("test-secret", 30*time.Minute),
		discardLogger(),
	)

	images := &fakeImages{res: &openverse.SearchResult{Results: []openverse.Image{}}}
	srv := NewServer(Deps{
		Auth:     authn,
		Contacts: services.NewContactService(db, m, discardLogger()),
		Images:   images,
		DB:       db,
		Logger:   discardLogger(),
	}, Options{AllowedOrigin: "*", ShutdownTimeout: time.Second})

	return &testServer{handler: srv.Handler(), images: images, tokens: tokens, db: db}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, ts.handler, method, path, token, body)
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// registerUser registers username and returns its access token.
func (ts *testServer) registerUser(t *testing.T, username, password string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/register", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, _ := decodeBody(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func newRequest(method, path, authHeader string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(common.AuthorizationHeaderName, authHeader)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
