// Package client is a Go client for the task tracker HTTP API. It keeps the
// session cookie in a cookie jar, so a Client behaves like one signed-in
// browser.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"tasktracker/internal/domain"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer. Message is the server's "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// User is the account part of the auth responses.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// SignUpResult mirrors POST /auth/signup.
type SignUpResult struct {
	Message              string `json:"message"`
	ConfirmationRequired bool   `json:"confirmationRequired"`
	User                 User   `json:"user"`
}

// CreateTaskInput is the body of POST /api/tasks.
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	UserID      *uuid.UUID `json:"userId,omitempty"`
}

type Client struct {
	base string
	http *http.Client
}

// New returns a client for the server at baseURL. A zero timeout uses the
// default.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: u.String(),
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			// The confirmation callback redirects to the HTML home page.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}, nil
}

// CallbackURL is the server's email confirmation route.
func (c *Client) CallbackURL() string {
	return c.base + "/auth/callback"
}

// SignUp registers an account. redirectTo, when set, is where the
// confirmation link points.
func (c *Client) SignUp(ctx context.Context, email, password, redirectTo string) (*SignUpResult, error) {
	var out SignUpResult
	body := map[string]string{"email": email, "password": password}
	if redirectTo != "" {
		body["redirectTo"] = redirectTo
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn stores the session cookie in the client's jar.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
}

// Session returns the signed-in user, or nil when there is no session.
func (c *Client) Session(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/session", nil, &out)
	if StatusOf(err) == http.StatusUnauthorized {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	var out []*domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var out domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, isCompleted bool) (*domain.Task, error) {
	var out domain.Task
	body := map[string]bool{"isCompleted": isCompleted}
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id.String(), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
