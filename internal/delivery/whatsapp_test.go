package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/config"
)

func whatsAppTestConfig() config.WhatsAppConfig {
	return config.WhatsAppConfig{
		AccessToken:   "test-token",
		PhoneNumberID: "1234567890",
	}
}

func TestWhatsAppSendSuccess(t *testing.T) {
	var got whatsAppPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1234567890/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	s := NewWhatsAppSender(whatsAppTestConfig())
	s.BaseURL = srv.URL

	out := s.Send(context.Background(), "+91 98765-43210", "", "hello there")
	assert.True(t, out.Success)
	assert.Empty(t, out.Error)

	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "919876543210", got.To, "phone must be sanitized to digits")
	assert.Equal(t, "hello there", got.Text.Body)
}

func TestWhatsAppSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Recipient phone number not in allowed list"}}`))
	}))
	defer srv.Close()

	s := NewWhatsAppSender(whatsAppTestConfig())
	s.BaseURL = srv.URL

	out := s.Send(context.Background(), "15550001111", "", "hi")
	assert.False(t, out.Success)
	assert.Equal(t, "Recipient phone number not in allowed list", out.Error)
}

func TestWhatsAppSendTransportErrorBecomesOutcome(t *testing.T) {
	s := NewWhatsAppSender(whatsAppTestConfig())
	s.BaseURL = "http://127.0.0.1:1" // nothing listening

	out := s.Send(context.Background(), "15550001111", "", "hi")
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
}

func TestWhatsAppConfigured(t *testing.T) {
	assert.NoError(t, NewWhatsAppSender(whatsAppTestConfig()).Configured())

	missing := NewWhatsAppSender(config.WhatsAppConfig{AccessToken: "tok"})
	assert.Error(t, missing.Configured())

	nonNumeric := NewWhatsAppSender(config.WhatsAppConfig{AccessToken: "tok", PhoneNumberID: "abc123"})
	assert.Error(t, nonNumeric.Configured())
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "919876543210", sanitizePhone("+91 (98765) 43210"))
	assert.Equal(t, "15550001111", sanitizePhone("1-555-000-1111"))
}
