package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/technohack/backend/internal/config"
)

// Verifier resolves a session token to the identity that holds it.
type Verifier interface {
	VerifySession(ctx context.Context, token string) (Identity, error)
}

// Client talks to the external identity provider's API.
type Client struct {
	client *resty.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(fmt.Sprintf("https://%s", cfg.IdentityAPIHost)).
			SetAuthToken(cfg.IdentityAPIKey),
	}
}

func (c *Client) VerifySession(ctx context.Context, token string) (Identity, error) {
	var payload map[string]any

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		SetResult(&payload).
		Post("/v1/sessions/verify")
	if err != nil {
		return Identity{}, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusNotFound {
		return Identity{}, ErrUnauthenticated
	}
	if resp.StatusCode() != http.StatusOK {
		return Identity{}, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode(), string(resp.Body()))
	}

	return Normalize(payload)
}
