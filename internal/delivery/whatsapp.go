package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/config"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v21.0"

// WhatsAppSender delivers text messages through the WhatsApp Cloud API.
// Free-form text normally requires the customer to have messaged the business
// within the last 24h; cold outreach needs pre-approved templates.
type WhatsAppSender struct {
	Config     config.WhatsAppConfig
	BaseURL    string
	HTTPClient *http.Client
}

func NewWhatsAppSender(cfg config.WhatsAppConfig) *WhatsAppSender {
	return &WhatsAppSender{
		Config:     cfg,
		BaseURL:    defaultGraphBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *WhatsAppSender) Configured() error {
	if s.Config.AccessToken == "" || s.Config.PhoneNumberID == "" {
		return fmt.Errorf("whatsapp credentials not configured")
	}
	for _, r := range s.Config.PhoneNumberID {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("whatsapp phone number ID must be numeric")
		}
	}
	return nil
}

type whatsAppPayload struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type graphErrorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Send posts one text message. The subject parameter is ignored; WhatsApp
// messages have no subject line.
func (s *WhatsAppSender) Send(ctx context.Context, to, _ string, body string) Outcome {
	if err := s.Configured(); err != nil {
		return failed(err.Error())
	}

	payload := whatsAppPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               sanitizePhone(to),
		Type:             "text",
	}
	payload.Text.Body = body

	buf, err := json.Marshal(payload)
	if err != nil {
		return failed(fmt.Sprintf("failed to encode payload: %v", err))
	}

	url := fmt.Sprintf("%s/%s/messages", s.BaseURL, s.Config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return failed(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+s.Config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return failed(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return ok()
	}

	var envelope graphErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		return failed(envelope.Error.Message)
	}
	return failed(fmt.Sprintf("API error: %d", resp.StatusCode))
}

// sanitizePhone strips everything but digits; the Cloud API wants country
// code plus number with no punctuation.
func sanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var _ Sender = (*WhatsAppSender)(nil)
