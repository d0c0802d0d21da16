// Package stripe implements the payment gateway port against Stripe's
// REST API: hosted checkout sessions, signed webhook verification, and
// subscription detail lookups.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/config"
)

// APIError carries the gateway's error message for surfacing to callers.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe: api error (status %d): %s", e.Status, e.Message)
}

// Client talks to the Stripe REST API with form-encoded requests.
type Client struct {
	cfg    config.StripeSettings
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewClient constructs a gateway client with a bounded request timeout.
func NewClient(cfg config.StripeSettings, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: log,
		now:    time.Now,
	}
}

// CreateCheckoutSession opens a subscription-mode hosted checkout with
// the local identifiers embedded as metadata the gateway echoes back.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string, meta port.CheckoutMetadata, successURL, cancelURL string) (*port.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("metadata[user_id]", meta.UserID)
	form.Set("metadata[subscription_plan]", meta.Plan)
	form.Set("metadata[subscription_frequency]", meta.Frequency)

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return &port.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// VerifyWebhook authenticates the raw payload against the webhook secret.
func (c *Client) VerifyWebhook(payload []byte, signature string) (*port.WebhookEvent, error) {
	return verifyAndParse(payload, signature, c.cfg.WebhookSecret, c.cfg.SignatureTolerance, c.now())
}

// GetSubscription re-queries the gateway for billing facts the checkout
// event body does not carry: unit price and current period bounds.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*port.SubscriptionDetails, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("stripe: subscription id is required")
	}

	var sub struct {
		Items struct {
			Data []struct {
				CurrentPeriodStart int64 `json:"current_period_start"`
				CurrentPeriodEnd   int64 `json:"current_period_end"`
				Price              struct {
					UnitAmount int64 `json:"unit_amount"`
				} `json:"price"`
			} `json:"data"`
		} `json:"items"`
	}
	path := "/v1/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}

	if len(sub.Items.Data) == 0 {
		return nil, &APIError{Status: http.StatusOK, Message: "subscription has no items"}
	}

	item := sub.Items.Data[0]
	return &port.SubscriptionDetails{
		Price:       float64(item.Price.UnitAmount) / 100, // cents to dollars
		PeriodStart: time.Unix(item.CurrentPeriodStart, 0).UTC(),
		PeriodEnd:   time.Unix(item.CurrentPeriodEnd, 0).UTC(),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read stripe response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		message := strings.TrimSpace(string(respBody))
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		c.logger.Error("stripe api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode stripe response: %w", err)
		}
	}

	return nil
}

// WithClock overrides the internal clock, used in tests.
func (c *Client) WithClock(clock func() time.Time) {
	if clock != nil {
		c.now = clock
	}
}

var _ port.PaymentGateway = (*Client)(nil)
