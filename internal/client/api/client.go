// Package api is the HTTP client the terminal app uses to talk to the
// server. It keeps the current access token in memory.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MLowen1/basicwebapp/internal/common"
)

// ErrUnavailable is returned when the server cannot be reached.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx response. Message is the server's "message" field.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusUnauthorized
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Contact struct {
	ID        int64  `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Image struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Creator string `json:"creator"`
	URL     string `json:"url"`
	License string `json:"license"`
}

type ImageResults struct {
	ResultCount int     `json:"result_count"`
	Results     []Image `json:"results"`
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

// do sends body as JSON and decodes a 2xx response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// Register creates the account and keeps the returned access token.
func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{username, string(password)}, &out); err != nil {
		return err
	}
	c.setToken(out.AccessToken)
	return nil
}

func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, string(password)}, &out); err != nil {
		return err
	}
	c.setToken(out.AccessToken)
	return nil
}

// Logout revokes the token on the server and forgets it locally. The local
// token is dropped even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.setToken("")
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Status returns the username the server sees, or "" when anonymous.
func (c *Client) Status(ctx context.Context) (string, error) {
	var out struct {
		LoggedInAs *string `json:"logged_in_as"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/status", nil, &out); err != nil {
		return "", err
	}
	if out.LoggedInAs == nil {
		return "", nil
	}
	return *out.LoggedInAs, nil
}

// ChangePassword obtains a reset token for the current user and redeems it.
func (c *Client) ChangePassword(ctx context.Context, newPassword []byte) error {
	var issued struct {
		ResetToken string `json:"reset_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-token", nil, &issued); err != nil {
		return err
	}

	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}{issued.ResetToken, string(newPassword)}

	return c.do(ctx, http.MethodPost, "/api/auth/reset-password", body, nil)
}

func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	var list []Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateContact(ctx context.Context, in Contact) (*Contact, error) {
	var out Contact
	if err := c.do(ctx, http.MethodPost, "/api/contacts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/contacts/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) SearchImages(ctx context.Context, query string) (*ImageResults, error) {
	var out ImageResults
	if err := c.do(ctx, http.MethodGet, "/api/images/search?q="+url.QueryEscape(query), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks server health.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
