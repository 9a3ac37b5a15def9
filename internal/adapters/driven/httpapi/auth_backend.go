package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driven"
)

// Backend auth endpoints.
const (
	LoginPath   = "/auth/login"
	RefreshPath = "/auth/refresh"
)

// Ensure AuthBackend implements the interface.
var _ driven.AuthBackend = (*AuthBackend)(nil)

// AuthBackend calls the login and refresh endpoints.
type AuthBackend struct {
	client *Client
}

// NewAuthBackend creates an auth backend sharing client's transport and base URL.
func NewAuthBackend(client *Client) *AuthBackend {
	return &AuthBackend{client: client}
}

// authPayload matches both {user, tokens} and the same object wrapped as data.
type authPayload struct {
	User   map[string]any   `json:"user"`
	Tokens domain.TokenPair `json:"tokens"`
}

// Login posts credentials and returns the user with the issued pair.
func (b *AuthBackend) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	env := b.client.Fetch(ctx, http.MethodPost, LoginPath, req)
	if err := rejection(env); err != nil {
		return nil, err
	}

	payload, err := decodeAuthPayload(env)
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}

	return &domain.LoginResult{User: payload.User, Tokens: payload.Tokens}, nil
}

// Refresh exchanges refreshToken for a new pair. The returned refresh token is
// empty when the backend did not rotate it.
func (b *AuthBackend) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	body := map[string]string{"refreshToken": refreshToken}
	env := b.client.Fetch(ctx, http.MethodPost, RefreshPath, body)
	if err := rejection(env); err != nil {
		return domain.TokenPair{}, err
	}

	payload, err := decodeAuthPayload(env)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %w", domain.ErrMalformedRefreshResponse, err)
	}
	if payload.Tokens.AccessToken == "" {
		return domain.TokenPair{}, domain.ErrMalformedRefreshResponse
	}

	return payload.Tokens, nil
}

// rejection converts a failed envelope into an error.
func rejection(env *domain.Envelope) error {
	switch {
	case env.Shape == domain.ShapeTransport:
		return fmt.Errorf("transport: %w", env.Cause)
	case env.Status == http.StatusUnauthorized || env.Status == http.StatusForbidden:
		return fmt.Errorf("%s (status %d): %w", env.ErrorText(), env.Status, domain.ErrAuthInvalid)
	case !env.Success:
		return fmt.Errorf("%s (status %d)", env.ErrorText(), env.Status)
	}
	return nil
}

// decodeAuthPayload reads {user, tokens} from the envelope data. A flat
// {accessToken, refreshToken} data object is accepted as well.
func decodeAuthPayload(env *domain.Envelope) (authPayload, error) {
	var payload authPayload
	if err := env.DecodeData(&payload); err != nil {
		return authPayload{}, err
	}

	if payload.Tokens.AccessToken == "" {
		var flat domain.TokenPair
		if err := json.Unmarshal(env.Data, &flat); err == nil && flat.AccessToken != "" {
			payload.Tokens = flat
		}
	}
	return payload, nil
}
