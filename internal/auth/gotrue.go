package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rainbow-properties/internal/config"
)

// Client talks to the provider's GoTrue REST endpoints. Admin operations
// use the service-role key; login and token resolution use the anon key.
type Client struct {
	url        string
	anonKey    string
	serviceKey string
	client     *http.Client
}

// NewClient creates an auth client from the hosted backend credentials.
func NewClient(cfg *config.SupabaseConfig) *Client {
	return &Client{
		url:        cfg.URL,
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type gotrueUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"user_metadata"`
}

func (u *gotrueUser) toUser() *User {
	return &User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.UserMetadata.Name,
		Role:  u.UserMetadata.Role,
	}
}

// SignUp creates a pre-confirmed identity with name/role metadata. Returns
// ErrUserExists when the email is already registered.
func (c *Client) SignUp(ctx context.Context, email, password, name, role string) (*User, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"name": name, "role": role},
	})
	if err != nil {
		return nil, err
	}

	body, status, err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", payload, c.serviceKey)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		msg := string(body)
		if status == http.StatusUnprocessableEntity ||
			strings.Contains(msg, "already exists") ||
			strings.Contains(msg, "already registered") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("signup failed: %d: %s", status, msg)
	}

	var u gotrueUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	u.UserMetadata.Name = name
	u.UserMetadata.Role = role
	return u.toUser(), nil
}

// Login exchanges email/password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	body, status, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", payload, c.anonKey)
	if err != nil {
		return "", nil, err
	}
	if status >= 400 {
		return "", nil, fmt.Errorf("login failed: %d: %s", status, string(body))
	}

	var resp struct {
		AccessToken string     `json:"access_token"`
		User        gotrueUser `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("decode login response: %w", err)
	}
	return resp.AccessToken, resp.User.toUser(), nil
}

// GetUser resolves a bearer token to its user.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, ErrInvalidToken
	}

	var u gotrueUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	if u.ID == "" {
		return nil, ErrInvalidToken
	}
	return u.toUser(), nil
}

// DeleteUser removes an identity; used to compensate failed directory
// writes.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	body, status, err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id, nil, c.serviceKey)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("delete user %s: %d: %s", id, status, string(body))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, key string) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return data, resp.StatusCode, nil
}
