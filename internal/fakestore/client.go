// Package fakestore is a client for the Fake Store REST API, the catalog,
// order history and account backend of the storefront.
package fakestore

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
	"time"

	"storefront/internal/domain"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fakestore: status %d", e.Status)
	}
	return fmt.Sprintf("fakestore: status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is match 404 responses against domain.ErrNotFound and
// 401 responses against domain.ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

// Client talks to the Fake Store API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New builds a Client. A zero timeout leaves requests bounded only by their
// context.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns one product. The API answers unknown ids with an empty
// 200 body, which is reported as domain.ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out *domain.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// ListCategories returns the category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserCarts returns the past carts of a user.
func (c *Client) UserCarts(ctx context.Context, userID int) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/carts/user/"+strconv.Itoa(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCart returns one past cart.
func (c *Client) GetCart(ctx context.Context, id string) (*domain.Order, error) {
	var out *domain.Order
	if err := c.do(ctx, http.MethodGet, "/carts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token. The token is opaque to the
// storefront.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// ListUsers returns all registered users.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser registers a user and returns it with the assigned id.
func (c *Client) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "/users", u, &out); err != nil {
		return nil, err
	}
	return mergeUser(u, out), nil
}

// UpdateUser replaces the user with the given id.
func (c *Client) UpdateUser(ctx context.Context, id int, u domain.User) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPut, "/users/"+strconv.Itoa(id), u, &out); err != nil {
		return nil, err
	}
	u.ID = id
	return mergeUser(u, out), nil
}

// DeleteUser removes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

// mergeUser fills fields the API left out of its echo from what was sent.
func mergeUser(sent, got domain.User) *domain.User {
	out := sent
	out.Password = ""
	if got.ID != 0 {
		out.ID = got.ID
	}
	if got.Email != "" {
		out.Email = got.Email
	}
	if got.Username != "" {
		out.Username = got.Username
	}
	if got.Name != (domain.UserName{}) {
		out.Name = got.Name
	}
	return &out
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// IsAPIError reports whether err carries an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
