package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sender delivers the out-of-band tokens to a user's mailbox.
type Sender interface {
	SendPasswordReset(ctx context.Context, email, token string) error
	SendVerification(ctx context.Context, email, token string) error
}

// Client talks to the mail-relay service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// SendRequest is the payload the relay expects for a single message.
type SendRequest struct {
	To       string `json:"to"`
	Template string `json:"template"`
	Token    string `json:"token"`
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) SendPasswordReset(ctx context.Context, email, token string) error {
	return c.send(ctx, SendRequest{To: email, Template: "password-reset", Token: token})
}

func (c *Client) SendVerification(ctx context.Context, email, token string) error {
	return c.send(ctx, SendRequest{To: email, Template: "verify-email", Token: token})
}

func (c *Client) send(ctx context.Context, reqBody SendRequest) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/send", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Mail handed to relay", zap.String("to", reqBody.To), zap.String("template", reqBody.Template))
	return nil
}

// Ping checks if the mail relay is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mail relay health check failed with status %d", resp.StatusCode)
	}

	return nil
}
