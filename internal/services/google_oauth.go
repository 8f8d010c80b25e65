package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// ErrUpstreamAuth means the identity provider did not answer the profile
// request with success. Callers must abort the request.
var ErrUpstreamAuth = errors.New("identity provider returned a non-success response")

// IdentityProvider is the part of the OAuth flow the handlers depend on.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Email(ctx context.Context, token *oauth2.Token) (string, error)
}

// GoogleUserInfo Google 用户信息结构
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

type GoogleOption func(*GoogleProvider)

// WithEndpoint points the provider at a different authorization server.
func WithEndpoint(endpoint oauth2.Endpoint) GoogleOption {
	return func(p *GoogleProvider) {
		p.config.Endpoint = endpoint
	}
}

// WithUserInfoURL overrides the profile endpoint.
func WithUserInfoURL(url string) GoogleOption {
	return func(p *GoogleProvider) {
		p.userInfoURL = url
	}
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// Email fetches the authenticated user's address from the profile endpoint.
func (p *GoogleProvider) Email(ctx context.Context, token *oauth2.Token) (string, error) {
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstreamAuth, resp.StatusCode, body)
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return "", fmt.Errorf("decode user info: %w", err)
	}
	if userInfo.Email == "" {
		return "", fmt.Errorf("%w: profile has no email", ErrUpstreamAuth)
	}
	return userInfo.Email, nil
}

// GenerateStateToken 生成随机 state token
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
