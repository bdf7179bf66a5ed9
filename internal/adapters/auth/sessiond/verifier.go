package sessiond

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"animal-shelter/internal/platform/httpclient"
	"animal-shelter/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("sessiond client not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrUnauthorized  = errors.New("sessiond unauthorized")
	ErrUpstream      = errors.New("sessiond upstream error")
)

// Verifier implementa auth.AuthVerifier contra el servicio de sesiones del
// refugio (registro/login/password viven fuera de este servicio).
type Verifier struct {
	client  *httpclient.Client
	baseURL string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewVerifier(cfg Config) (*Verifier, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, ErrNotConfigured
	}

	c, err := httpclient.NewWithBaseURL(baseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Verifier{client: c, baseURL: baseURL}, nil
}

type verifyResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var out verifyResponse
	err := v.client.DoJSON(ctx, http.MethodGet, "/v1/sessions/me",
		map[string]string{"Authorization": "Bearer " + token}, nil, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("sessiond verify failed: %w", err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("sessiond claims missing user id")
	}

	return auth.Claims{
		UserID:  out.UserID,
		Email:   strings.TrimSpace(out.Email),
		IsStaff: out.IsStaff,
	}, nil
}
