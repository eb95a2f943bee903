package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reclamohq/reclamo/internal/billing/domain"
	"github.com/reclamohq/reclamo/internal/config"
)

// Client talks to the payment processor REST API with a bounded timeout.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.Config) *Client {
	timeout := time.Duration(cfg.Billing.ProviderTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.Billing.ProviderBaseURL, "/"),
		apiKey:  cfg.Billing.ProviderAPIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	path := "/v1/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params domain.CheckoutParams) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, params domain.PortalParams) (*domain.PortalSession, error) {
	var session domain.PortalSession
	if err := c.do(ctx, http.MethodPost, "/v1/portal/sessions", params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(limited)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.Provider = (*Client)(nil)
