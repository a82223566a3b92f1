// Package users provides the HTTP client for the remote user service.
// The people module resolves the requesting user here when triggering a
// roster export, to address the delivery email.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"registry_backend/platform/apperr"
	"registry_backend/platform/logger"
)

// User is the subset of the remote user record this service consumes.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client is the HTTP client for the user service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a new user service client.
func New(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		log:        log,
	}
}

// FindOne fetches a user by ID. A 404 maps to a typed not-found error; any
// other non-200 status or transport failure is reported as-is.
func (c *Client) FindOne(ctx context.Context, id int64) (User, error) {
	reqURL := fmt.Sprintf("%s/api/v1/users/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return User{}, fmt.Errorf("create user request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("user service request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return User{}, apperr.NotFound("user not found")
	default:
		return User{}, fmt.Errorf("user service returned %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode user response: %w", err)
	}

	return user, nil
}
