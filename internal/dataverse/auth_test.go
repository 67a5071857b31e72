package dataverse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAzureCLITokenSource(t *testing.T) {
	var gotArgs []string
	src := NewAzureCLITokenSource("https://org.crm.dynamics.com", "tenant-1")
	src.run = func(_ context.Context, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"accessToken": "abc", "expires_on": 1700000000}`), nil
	}

	tok, expires, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	assert.Equal(t, time.Unix(1700000000, 0), expires)
	assert.Equal(t, []string{
		"account", "get-access-token",
		"--resource", "https://org.crm.dynamics.com",
		"--output", "json",
		"--tenant", "tenant-1",
	}, gotArgs)
}

func TestAzureCLITokenSourceErrors(t *testing.T) {
	src := NewAzureCLITokenSource("https://org.crm.dynamics.com", "")

	src.run = func(context.Context, ...string) ([]byte, error) {
		return nil, errors.New("az: Please run 'az login'")
	}
	_, err := src.Token(context.Background())
	assert.ErrorContains(t, err, "az login")

	src.run = func(context.Context, ...string) ([]byte, error) {
		return []byte(`{"accessToken": ""}`), nil
	}
	_, err = src.Token(context.Background())
	assert.Error(t, err)

	src.run = func(context.Context, ...string) ([]byte, error) {
		return []byte(`not json`), nil
	}
	_, err = src.Token(context.Background())
	assert.Error(t, err)
}

type countingSource struct {
	calls   int
	expires time.Time
}

func (c *countingSource) Fetch(context.Context) (string, time.Time, error) {
	c.calls++
	return "tok", c.expires, nil
}

func TestCachingTokenSourceReusesUntilSkew(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	src := &countingSource{expires: base.Add(time.Hour)}
	cache := NewCachingTokenSource(src, 5*time.Minute)
	now := base
	cache.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		tok, err := cache.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	}
	assert.Equal(t, 1, src.calls)

	now = base.Add(56 * time.Minute)
	_, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "token inside the skew window is refreshed")
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := StaticTokenSource("x").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", tok)

	_, err = StaticTokenSource("").Token(context.Background())
	assert.Error(t, err)
}

func TestClientCredentialsTokenSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tenant-1/oauth2/v2.0/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "https://org.crm.dynamics.com/.default", r.PostForm.Get("scope"))
		if r.PostForm.Get("client_secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"AADSTS7000215: Invalid client secret"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"app-token","expires_in":3600}`))
	}))
	defer srv.Close()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	src := NewClientCredentialsTokenSource("https://org.crm.dynamics.com/", "tenant-1", "app", "s3cret")
	src.Authority = srv.URL
	src.now = func() time.Time { return base }

	tok, expires, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "app-token", tok)
	assert.Equal(t, base.Add(time.Hour), expires)

	src.ClientSecret = "wrong"
	_, err = src.Token(context.Background())
	assert.ErrorContains(t, err, "Invalid client secret")

	src.ClientSecret = ""
	_, err = src.Token(context.Background())
	assert.ErrorContains(t, err, "client secret")
}
