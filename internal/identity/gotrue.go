package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoTrueProvider speaks the GoTrue-style HTTP API used by hosted auth
// services. When the provider's JWT secret is configured, access tokens are
// verified locally and GetSession costs no network round trip.
type GoTrueProvider struct {
	baseURL    string
	apiKey     string
	jwtSecret  []byte
	httpClient httpDoer
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewGoTrueProvider(baseURL, apiKey, jwtSecret string) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		jwtSecret:  []byte(jwtSecret),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: sign in: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("identity: sign in: unexpected status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&tok); err != nil {
		return nil, fmt.Errorf("identity: sign in: decode response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("identity: sign in: empty access token")
	}

	expiresAt := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
		Identity: Identity{
			Subject:   tok.User.ID,
			Email:     tok.User.Email,
			ExpiresAt: expiresAt,
		},
	}, nil
}

func (p *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	p.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity: sign out: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// An already-dead token is a successful sign-out.
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("identity: sign out: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (p *GoTrueProvider) GetSession(ctx context.Context, accessToken string) (*Identity, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, ErrNotAuthenticated
	}
	if len(p.jwtSecret) > 0 {
		return p.verifyLocal(accessToken)
	}
	return p.fetchUser(ctx, accessToken)
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *GoTrueProvider) verifyLocal(accessToken string) (*Identity, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNotAuthenticated
	}

	identity := &Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func (p *GoTrueProvider) fetchUser(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	p.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: get session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrNotAuthenticated
	default:
		return nil, fmt.Errorf("identity: get session: unexpected status %d", resp.StatusCode)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return nil, fmt.Errorf("identity: get session: decode response: %w", err)
	}
	return &Identity{Subject: user.ID, Email: user.Email}, nil
}

func (p *GoTrueProvider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
}
