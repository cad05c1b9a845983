// Package googleauth wraps the Google OAuth code flow used for
// federated login: redirect to consent, exchange the callback code, and
// fetch the user's identity.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tasklane/tasklane-api/internal/config"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// UserInfo is the identity Google reports for an authenticated user.
type UserInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
}

// Provider runs the OAuth redirect flow against an identity provider.
type Provider interface {
	// AuthURL returns the consent-screen URL the client is redirected to.
	AuthURL(state string) string

	// Exchange trades the callback code for the user's identity.
	Exchange(ctx context.Context, code string) (*UserInfo, error)
}

// GoogleProvider implements Provider against Google's OAuth endpoints.
type GoogleProvider struct {
	oauth *oauth2.Config
}

// NewGoogleProvider creates a provider from the configured client
// credentials. backendURL is the externally visible base URL the
// callback route is registered under.
func NewGoogleProvider(cfg config.GoogleConfig, backendURL string) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  backendURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// Ensure GoogleProvider implements Provider interface
var _ Provider = (*GoogleProvider)(nil)

// AuthURL implements Provider.AuthURL
func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange implements Provider.Exchange
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := p.oauth.Client(ctx, token)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, body)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response carried no email")
	}

	return &info, nil
}
