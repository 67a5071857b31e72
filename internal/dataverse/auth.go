package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// TokenSource supplies bearer tokens for the environment.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

// Token returns the token.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty token")
	}
	return string(s), nil
}

// AzureCLITokenSource asks a logged-in Azure CLI for a token scoped to the
// environment.
type AzureCLITokenSource struct {
	Resource string // environment URL
	TenantID string // optional
	// run executes the az command; replaced in tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewAzureCLITokenSource creates a token source for resource.
func NewAzureCLITokenSource(resource, tenantID string) *AzureCLITokenSource {
	return &AzureCLITokenSource{Resource: resource, TenantID: tenantID, run: runAz}
}

type azToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresOn   string `json:"expiresOn"`
	Expires     int64  `json:"expires_on"`
}

func runAz(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "az", args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("az: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Fetch runs az and returns the token with its expiry.
func (s *AzureCLITokenSource) Fetch(ctx context.Context) (string, time.Time, error) {
	args := []string{"account", "get-access-token", "--resource", s.Resource, "--output", "json"}
	if s.TenantID != "" {
		args = append(args, "--tenant", s.TenantID)
	}
	out, err := s.run(ctx, args...)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to get token from Azure CLI, make sure you're logged in with 'az login': %w", err)
	}

	var tok azToken
	if err := json.Unmarshal(out, &tok); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse Azure CLI token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("Azure CLI returned no access token")
	}

	var expires time.Time
	if tok.Expires > 0 {
		expires = time.Unix(tok.Expires, 0)
	} else if t, err := time.ParseInLocation("2006-01-02 15:04:05.999999", tok.ExpiresOn, time.Local); err == nil {
		expires = t
	}
	return tok.AccessToken, expires, nil
}

// Token implements TokenSource.
func (s *AzureCLITokenSource) Token(ctx context.Context) (string, error) {
	tok, _, err := s.Fetch(ctx)
	return tok, err
}

// ExpiringTokenSource is a token source that also reports expiry.
type ExpiringTokenSource interface {
	Fetch(ctx context.Context) (string, time.Time, error)
}

// CachingTokenSource reuses a token until shortly before it expires.
type CachingTokenSource struct {
	src  ExpiringTokenSource
	skew time.Duration
	now  func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewCachingTokenSource wraps src. Tokens are refreshed skew before expiry.
func NewCachingTokenSource(src ExpiringTokenSource, skew time.Duration) *CachingTokenSource {
	return &CachingTokenSource{src: src, skew: skew, now: time.Now}
}

// Token implements TokenSource.
func (c *CachingTokenSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(c.skew).Before(c.expires) {
		return c.token, nil
	}
	tok, expires, err := c.src.Fetch(ctx)
	if err != nil {
		return "", err
	}
	c.token, c.expires = tok, expires
	return tok, nil
}

// DefaultAuthority is the Microsoft Entra login endpoint.
const DefaultAuthority = "https://login.microsoftonline.com"

// ClientCredentialsTokenSource requests app-only tokens for a registered
// application using its client secret.
type ClientCredentialsTokenSource struct {
	Resource     string
	TenantID     string
	ClientID     string
	ClientSecret string
	Authority    string
	HTTPClient   *http.Client
	now          func() time.Time
}

// NewClientCredentialsTokenSource creates a token source for resource.
func NewClientCredentialsTokenSource(resource, tenantID, clientID, clientSecret string) *ClientCredentialsTokenSource {
	return &ClientCredentialsTokenSource{
		Resource:     resource,
		TenantID:     tenantID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Authority:    DefaultAuthority,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Fetch posts the client credentials grant and returns the token with its expiry.
func (s *ClientCredentialsTokenSource) Fetch(ctx context.Context) (string, time.Time, error) {
	if s.TenantID == "" || s.ClientID == "" || s.ClientSecret == "" {
		return "", time.Time{}, fmt.Errorf("client credentials need tenant_id, client_id and a client secret")
	}
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {s.ClientID},
		"client_secret": {s.ClientSecret},
		"scope":         {strings.TrimRight(s.Resource, "/") + "/.default"},
	}
	endpoint := strings.TrimRight(s.Authority, "/") + "/" + url.PathEscape(s.TenantID) + "/oauth2/v2.0/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", time.Time{}, WrapTransportError(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, WrapTransportError(err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse token response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || tok.AccessToken == "" {
		if tok.ErrorDescription != "" {
			return "", time.Time{}, fmt.Errorf("token request failed: %s", tok.ErrorDescription)
		}
		return "", time.Time{}, fmt.Errorf("token request failed with HTTP %d", resp.StatusCode)
	}
	return tok.AccessToken, s.now().Add(time.Duration(tok.ExpiresIn) * time.Second), nil
}

// Token implements TokenSource.
func (s *ClientCredentialsTokenSource) Token(ctx context.Context) (string, error) {
	tok, _, err := s.Fetch(ctx)
	return tok, err
}
