package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quickbill/quickbill_backend/internal/platform/config"
)

type smsSender struct {
	gatewayURL string
	apiKey     string
	client     *http.Client
}

func newSMSSender(cfg *config.Config) *smsSender {
	return &smsSender{
		gatewayURL: cfg.SMSGatewayURL,
		apiKey:     cfg.SMSAPIKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *smsSender) sendResetCode(ctx context.Context, phone, code string) error {
	if s.gatewayURL == "" {
		return fmt.Errorf("SMS gateway is not configured")
	}

	message := fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code)

	data := url.Values{}
	data.Set("apiKey", s.apiKey)
	data.Set("recipient", phone)
	data.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SMS gateway response: %w", err)
	}

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse SMS gateway response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("SMS gateway rejected message: %s (code %d)", result.Message, result.Code)
	}
	return nil
}
