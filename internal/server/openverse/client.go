// Package openverse is a small client for the Openverse image search API.
package openverse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrUpstream matches every failure caused by the remote service or the
	// network path to it.
	ErrUpstream   = errors.New("openverse upstream error")
	ErrEmptyQuery = errors.New("search query is empty")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openverse: unexpected status %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstream
}

type Config struct {
	BaseURL      string
	APIKey       string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type Query struct {
	Q        string
	Page     int
	PageSize int
	License  string
}

type Image struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Creator        string `json:"creator"`
	URL            string `json:"url"`
	Thumbnail      string `json:"thumbnail"`
	License        string `json:"license"`
	LicenseVersion string `json:"license_version"`
}

type SearchResult struct {
	ResultCount int     `json:"result_count"`
	Results     []Image `json:"results"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client. Client credentials take precedence over a static API
// key; with neither, requests are anonymous.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})

	var hc *http.Client
	switch {
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     base + "/auth_tokens/token/",
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		hc = cc.Client(ctx)
	case cfg.APIKey != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.APIKey,
			TokenType:   "Bearer",
		}))
	default:
		hc = &http.Client{}
	}
	hc.Timeout = cfg.Timeout

	return &Client{baseURL: base, http: hc}
}

func (c *Client) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if strings.TrimSpace(q.Q) == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", q.Q)
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.License != "" {
		params.Set("license_type", q.License)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/images/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if out.Results == nil {
		out.Results = []Image{}
	}

	return &out, nil
}
