package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client sends SMS messages.
type Client interface {
	SendSMS(ctx context.Context, to, message string) error
	IsConfigured() bool
}

type twilioClient struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

// NewTwilioClient builds an SMS client backed by the Twilio REST API.
func NewTwilioClient(accountSID, authToken, fromNumber string) Client {
	return &twilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (tc *twilioClient) IsConfigured() bool {
	return tc.accountSID != "" && tc.authToken != "" && tc.fromNumber != ""
}

func (tc *twilioClient) SendSMS(ctx context.Context, to, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", tc.accountSID)

	data := url.Values{}
	data.Set("To", to)
	data.Set("From", tc.fromNumber)
	data.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(tc.accountSID, tc.authToken)
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
