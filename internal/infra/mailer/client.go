// Package mailer delivers OTP verification emails through an HTTP mail
// relay API. Delivery is best effort: callers log and discard errors so
// registration never fails on email problems.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/enuda-labs/summit-BE/internal/core/port"
	"github.com/enuda-labs/summit-BE/internal/infra/config"
	"github.com/enuda-labs/summit-BE/internal/infra/logger"
)

// Client sends templated OTP emails via the configured relay.
type Client struct {
	cfg    config.MailerSettings
	http   *http.Client
	logger *zap.Logger
}

// NewClient constructs a mailer with a bounded request timeout.
func NewClient(cfg config.MailerSettings, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		logger: log,
	}
}

type templatePayload struct {
	ID        string            `json:"id"`
	Variables map[string]string `json:"variables"`
}

type partyPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sendPayload struct {
	Subject    string          `json:"subject"`
	Template   templatePayload `json:"template"`
	Sender     partyPayload    `json:"sender"`
	Recipients partyPayload    `json:"recipients"`
}

// Send posts the OTP email to the relay API. Any non-200 response or
// transport failure is returned as an error; callers treat it as
// non-fatal.
func (c *Client) Send(ctx context.Context, code, recipientName, recipientEmail string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("otp code is empty")
	}
	if c.cfg.APIURL == "" {
		return fmt.Errorf("mailer api url not configured")
	}

	payload := sendPayload{
		Subject: "OTP Verification",
		Template: templatePayload{
			ID:        c.cfg.TemplateID,
			Variables: map[string]string{"oTP": code},
		},
		Sender: partyPayload{
			Name:  c.cfg.SenderName,
			Email: c.cfg.SenderEmail,
		},
		Recipients: partyPayload{
			Name:  recipientName,
			Email: recipientEmail,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APISecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("email relay rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("recipient", logger.MaskEmail(recipientEmail)),
			zap.ByteString("response", respBody),
		)
		return fmt.Errorf("email relay returned status %d", resp.StatusCode)
	}

	c.logger.Info("email sent", zap.String("recipient", logger.MaskEmail(recipientEmail)))
	return nil
}

var _ port.NotificationSender = (*Client)(nil)
