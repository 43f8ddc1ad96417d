package delivery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/config"
)

const (
	defaultTokenURL     = "https://oauth2.googleapis.com/token"
	defaultGmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"
)

// GmailSender delivers plain-text email through the Gmail API. Every send
// exchanges the stored refresh token for a fresh access token first.
type GmailSender struct {
	Config     config.GmailConfig
	TokenURL   string
	SendURL    string
	HTTPClient *http.Client
}

func NewGmailSender(cfg config.GmailConfig) *GmailSender {
	return &GmailSender{
		Config:     cfg,
		TokenURL:   defaultTokenURL,
		SendURL:    defaultGmailSendURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *GmailSender) Configured() error {
	if s.Config.ClientID == "" || s.Config.ClientSecret == "" || s.Config.RefreshToken == "" || s.Config.SenderEmail == "" {
		return fmt.Errorf("gmail configuration incomplete (check client ID/secret/refresh token/sender)")
	}
	return nil
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (s *GmailSender) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {s.Config.ClientID},
		"client_secret": {s.Config.ClientSecret},
		"refresh_token": {s.Config.RefreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if tok.ErrorDescription != "" {
			return "", fmt.Errorf("google OAuth2 error: %s", tok.ErrorDescription)
		}
		if tok.Error != "" {
			return "", fmt.Errorf("google OAuth2 error: %s", tok.Error)
		}
		return "", fmt.Errorf("google OAuth2 error: status %d", resp.StatusCode)
	}
	return tok.AccessToken, nil
}

// Send delivers one message. The Gmail API expects the full RFC 2822 message
// base64url-encoded in the "raw" field.
func (s *GmailSender) Send(ctx context.Context, to, subject, body string) Outcome {
	if err := s.Configured(); err != nil {
		return failed(err.Error())
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return failed(err.Error())
	}

	lines := []string{
		"From: " + s.Config.SenderEmail,
		"To: " + to,
		"Subject: " + subject,
		`Content-Type: text/plain; charset="UTF-8"`,
		"MIME-Version: 1.0",
		"Content-Transfer-Encoding: 7bit",
		"",
		body,
	}
	raw := base64.RawURLEncoding.EncodeToString([]byte(strings.Join(lines, "\r\n")))

	buf, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return failed(fmt.Sprintf("failed to encode payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SendURL, strings.NewReader(string(buf)))
	if err != nil {
		return failed(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
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
	return failed(fmt.Sprintf("gmail API error: %d", resp.StatusCode))
}

var _ Sender = (*GmailSender)(nil)
