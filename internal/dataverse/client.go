// Package dataverse is a thin client for the Dataverse Web API: query
// execution, metadata listing and FetchXML passthrough.
package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/nhath/ezdv/internal/query"
)

// APIPath is appended to the environment URL for every relative request.
const APIPath = "/api/data/v9.2"

const userAgent = "ezdv/0.1"

// Client issues authenticated GET requests against one environment.
type Client struct {
	envURL     string
	tokens     TokenSource
	HTTPClient *http.Client
}

// NewClient creates a client for envURL (e.g. https://org.crm.dynamics.com).
// The HTTP client has no timeout; callers bound requests through ctx.
func NewClient(envURL string, tokens TokenSource) *Client {
	return &Client{
		envURL:     strings.TrimRight(envURL, "/"),
		tokens:     tokens,
		HTTPClient: &http.Client{},
	}
}

// EnvironmentURL returns the normalized environment URL.
func (c *Client) EnvironmentURL() string {
	return c.envURL
}

// APIURL returns the base Web API URL.
func (c *Client) APIURL() string {
	return c.envURL + APIPath
}

// resolve turns an endpoint into an absolute URL. Absolute links such as
// @odata.nextLink arrive encoded and are used as-is. Relative endpoints are
// written unencoded; their option values are percent-encoded here.
func (c *Client) resolve(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	path, options, ok := strings.Cut(strings.TrimLeft(endpoint, "/"), "?")
	full := c.APIURL() + "/" + strings.ReplaceAll(path, " ", "%20")
	if !ok || options == "" {
		return full
	}
	return full + "?" + query.EncodeOptions(options)
}

// Get performs an authenticated GET and returns the response body.
func (c *Client) Get(ctx context.Context, endpoint string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, WrapTransportError(err)
	}

	fullURL := c.resolve(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, WrapTransportError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")
	req.Header.Set("Prefer", `odata.include-annotations="*"`)
	req.Header.Set("User-Agent", userAgent)

	log.Printf("GET %s", fullURL)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, WrapTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapTransportError(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// getJSON performs a GET and decodes the body into result.
func (c *Client) getJSON(ctx context.Context, endpoint string, result any) error {
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// Execute runs a query string relative to the API root (or an absolute
// next link) and returns the raw JSON body. It satisfies guided.Executor.
func (c *Client) Execute(ctx context.Context, queryString string) ([]byte, error) {
	return c.Get(ctx, queryString)
}
