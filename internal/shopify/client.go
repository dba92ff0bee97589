// Package shopify is the Admin GraphQL API client. It implements the
// records.Client contract over metaobjects and metafield definitions so the
// rest of the app never speaks GraphQL directly.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const defaultAPIVersion = "2024-10"

// Factory builds per-shop clients that share one HTTP client and one circuit
// breaker. The breaker trips after sustained Admin API failures so a platform
// outage fails fast instead of tying up request handlers.
type Factory struct {
	apiVersion string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker

	// baseURL overrides the per-shop https endpoint in tests.
	baseURL string
}

// NewFactory creates a client factory for the given API version.
func NewFactory(apiVersion string, timeout time.Duration) *Factory {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Factory{
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "shopify-admin-api",
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 10 },
		}),
	}
}

// NewClient returns an authorized handle to one shop's Admin API.
func (f *Factory) NewClient(shop, accessToken string) *Client {
	endpoint := f.baseURL
	if endpoint == "" {
		endpoint = "https://" + shop
	}
	endpoint = strings.TrimRight(endpoint, "/") + "/admin/api/" + f.apiVersion + "/graphql.json"

	return &Client{
		shop:     shop,
		token:    accessToken,
		endpoint: endpoint,
		http:     f.httpClient,
		breaker:  f.breaker,
	}
}

// Client executes GraphQL operations against a single shop.
type Client struct {
	shop     string
	token    string
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
}

// Shop returns the myshopify domain this client is bound to.
func (c *Client) Shop() string { return c.shop }

// UserError is a structured mutation error reported by the Admin API.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// execute runs one GraphQL round trip and decodes the data payload into out.
// Transport failures and non-2xx statuses count against the circuit breaker;
// GraphQL-level errors do not, since they indicate a bad request rather than
// an unhealthy upstream.
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shopify-Access-Token", c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("admin api returned status %d", resp.StatusCode)
		}
		return b, nil
	})
	if err != nil {
		return fmt.Errorf("admin api request for %s: %w", c.shop, err)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw.([]byte), &envelope); err != nil {
		return fmt.Errorf("decoding admin api response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("admin api error: %s", envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decoding admin api data: %w", err)
		}
	}
	return nil
}
