package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Client sends transactional email.
type Client interface {
	SendOTPEmail(ctx context.Context, to, code string, ttl time.Duration) error
	IsConfigured() bool
}

type brevoClient struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// NewBrevoClient builds a mail client backed by the Brevo transactional
// email API.
func NewBrevoClient(apiKey, fromEmail, fromName string) Client {
	return &brevoClient{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *brevoClient) IsConfigured() bool {
	return c.apiKey != "" && c.fromEmail != ""
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (c *brevoClient) SendOTPEmail(ctx context.Context, to, code string, ttl time.Duration) error {
	payload := sendEmailReq{
		Sender:  map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:      []map[string]string{{"email": to}},
		Subject: "Your Project Portico verification code",
		HTMLContent: fmt.Sprintf(
			"<p>Your verification code is <strong>%s</strong>. It is valid for %d minutes.</p>",
			code, int(ttl.Minutes()),
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal brevo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build brevo request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send brevo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
