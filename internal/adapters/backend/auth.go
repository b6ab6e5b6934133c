package backend

import (
	"context"
	"errors"
	"net/http"

	"finflow-gateway/internal/core/domain"
)

// Login exchanges credentials for a bearer token. Backend rejections map
// to ErrInvalidCredentials with the backend message preserved for display;
// transport failures stay ErrNetwork.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return "", reject(err, domain.ErrInvalidCredentials)
		}
		return "", err
	}

	if out.Token == "" {
		return "", domain.ErrInvalidCredential
	}
	return out.Token, nil
}

// Register creates a new user account. Validation rejections (duplicate
// e-mail and the like) map to ErrRegistrationFailed with the backend
// message preserved.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}

	if err := c.do(ctx, http.MethodPost, "/register", "", body, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return reject(err, domain.ErrRegistrationFailed)
		}
		return err
	}
	return nil
}

// GetUserByID fetches the authoritative user record
func (c *Client) GetUserByID(ctx context.Context, id, credential string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/user/"+id, credential, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
