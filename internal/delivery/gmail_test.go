package delivery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/config"
)

func gmailTestConfig() config.GmailConfig {
	return config.GmailConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
		SenderEmail:  "sender@example.com",
	}
}

func TestGmailSendSuccess(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh-token"})
	}))
	defer tokenSrv.Close()

	var raw string
	sendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		raw = body["raw"]
		w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer sendSrv.Close()

	s := NewGmailSender(gmailTestConfig())
	s.TokenURL = tokenSrv.URL
	s.SendURL = sendSrv.URL

	out := s.Send(context.Background(), "customer@example.com", "Summer Sale", "Hello!\n\nBig sale.")
	require.True(t, out.Success, out.Error)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	require.NoError(t, err)
	message := string(decoded)
	assert.Contains(t, message, "From: sender@example.com")
	assert.Contains(t, message, "To: customer@example.com")
	assert.Contains(t, message, "Subject: Summer Sale")
	assert.True(t, strings.HasSuffix(message, "Hello!\n\nBig sale."))
}

func TestGmailTokenExchangeFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Token has been expired or revoked.",
		})
	}))
	defer tokenSrv.Close()

	s := NewGmailSender(gmailTestConfig())
	s.TokenURL = tokenSrv.URL

	out := s.Send(context.Background(), "customer@example.com", "Sale", "body")
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "Token has been expired or revoked")
}

func TestGmailSendAPIError(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh-token"})
	}))
	defer tokenSrv.Close()

	sendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid To header"}}`))
	}))
	defer sendSrv.Close()

	s := NewGmailSender(gmailTestConfig())
	s.TokenURL = tokenSrv.URL
	s.SendURL = sendSrv.URL

	out := s.Send(context.Background(), "not-an-address", "Sale", "body")
	assert.False(t, out.Success)
	assert.Equal(t, "Invalid To header", out.Error)
}

func TestGmailConfigured(t *testing.T) {
	assert.NoError(t, NewGmailSender(gmailTestConfig()).Configured())

	incomplete := gmailTestConfig()
	incomplete.RefreshToken = ""
	assert.Error(t, NewGmailSender(incomplete).Configured())
}
