package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioConfig holds the Twilio account credentials and sender number.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TwilioNotifier sends SMS through the Twilio Messages API.
type TwilioNotifier struct {
	config TwilioConfig
	client *http.Client
}

// NewTwilioNotifier creates a TwilioNotifier with the given credentials.
func NewTwilioNotifier(config TwilioConfig) *TwilioNotifier {
	return &TwilioNotifier{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers the message via Twilio.
func (n *TwilioNotifier) Send(ctx context.Context, to, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", n.config.AccountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", n.config.FromNumber)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(n.config.AccountSID, n.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, apiErr.Message)
	}

	var result struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		slog.Info("SMS sent", "to", to, "sid", result.SID)
	}
	return nil
}
