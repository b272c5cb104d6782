package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer mimics the subset of the HTTP API the client uses.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	const token = "tok-1"
	authed := func(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer "+token }
	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Username != "alice" || c.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login succeeded", "access_token": token})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already exists"})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing authorization header"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "username": "alice"})
	})
	mux.HandleFunc("GET /api/auth/status", func(w http.ResponseWriter, r *http.Request) {
		if authed(r) {
			writeJSON(w, http.StatusOK, map[string]any{"logged_in_as": "alice"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"logged_in_as": nil})
	})
	mux.HandleFunc("POST /api/auth/reset-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"reset_token": "reset-1", "expires_at": "2030-01-01T00:00:00Z"})
	})
	mux.HandleFunc("POST /api/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "reset-1", body["token"])
		assert.Equal(t, "new-pw", body["new_password"])
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	})
	mux.HandleFunc("GET /api/contacts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Contact{{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}})
	})
	mux.HandleFunc("POST /api/contacts", func(w http.ResponseWriter, r *http.Request) {
		var c Contact
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID = 2
		writeJSON(w, http.StatusCreated, c)
	})
	mux.HandleFunc("DELETE /api/contacts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "2" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Contact not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted"})
	})
	mux.HandleFunc("GET /api/images/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "red fox", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, ImageResults{ResultCount: 1, Results: []Image{{ID: "i1", Title: "Fox"}}})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SessionFlow(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL+"/", time.Second)
	ctx := context.Background()

	name, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	err = c.Login(ctx, "alice", []byte("bad"))
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Bad username or password")

	require.NoError(t, c.Login(ctx, "alice", []byte("pw")))
	assert.Equal(t, "tok-1", c.Token())

	name, err = c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 7, Username: "alice"}, me)

	require.NoError(t, c.ChangePassword(ctx, []byte("new-pw")))

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())

	err = c.Logout(ctx)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_RegisterConflict(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL, time.Second)

	err := c.Register(context.Background(), "alice", []byte("pw"))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Username already exists", apiErr.Message)
	assert.Empty(t, c.Token())
}

func TestClient_ContactsAndImages(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL, time.Second)
	ctx := context.Background()

	list, err := c.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].FirstName)

	created, err := c.CreateContact(ctx, Contact{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	require.NoError(t, c.DeleteContact(ctx, 2))

	err = c.DeleteContact(ctx, 3)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	res, err := c.SearchImages(ctx, "red fox")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ResultCount)

	require.NoError(t, c.Ping(ctx))
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, time.Second)
	err := c.Ping(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}
