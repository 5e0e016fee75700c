// Package apiclient is the Go SDK for the festops REST API. It carries the
// session cookie, normalizes transport failures into the listview error
// taxonomy, and exposes each entity as a listview.Remote so callers can sit
// an optimistic list controller on top.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"festops/internal/domain"
	"festops/internal/listview"
)

const DefaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the API at baseURL. The cookie jar keeps the
// session across calls after Login.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil,
		domain.LoginRequest{Email: email, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout drops the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil)
}

// Me returns the authenticated operator.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CashFlow fetches the report for [from, to]; zero bounds use the server
// default window.
func (c *Client) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		query.Set("to", to.Format(time.RFC3339))
	}
	var report domain.CashFlowReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/reports/cashflow", query, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// do performs one request and decodes the JSON response into out (when
// non-nil). Every failure comes back as a *listview.Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return listview.NetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return listview.StatusError(resp.StatusCode, decodeErrorMessage(resp))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return listview.NetworkError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// decodeErrorMessage pulls the {"error": msg} body the API emits on
// failure, falling back to the HTTP status text.
func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(resp.StatusCode)
}

// encodeListQuery turns a ListQuery into the API's query parameters.
func encodeListQuery(q domain.ListQuery) url.Values {
	q = q.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	values.Set("sortOrder", string(q.SortOrder))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for k, v := range q.Filters {
		values.Set(k, v)
	}
	return values
}
