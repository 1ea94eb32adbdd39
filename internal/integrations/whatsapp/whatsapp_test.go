package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avillegas/care-assistant/internal/config"
)

// TestUnconfiguredSender verifies absent settings disable the channel.
func TestUnconfiguredSender(t *testing.T) {
	t.Parallel()

	s := NewSender(context.Background(), config.WhatsAppConfig{})
	require.False(t, s.Configured())
	require.ErrorIs(t, s.SendText(context.Background(), "hola"), ErrNotConfigured)

	// A gateway without a number is still unusable.
	s = NewSender(context.Background(), config.WhatsAppConfig{GatewayURL: "https://gw.local"})
	require.False(t, s.Configured())
}

// TestSendText verifies the message is posted as form data to the gateway.
func TestSendText(t *testing.T) {
	t.Parallel()

	var gotPhone, gotMessage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPhone = r.PostFormValue("phone")
		gotMessage = r.PostFormValue("message")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewSender(context.Background(), config.WhatsAppConfig{
		GatewayURL:  server.URL,
		PhoneNumber: "+34600000000",
	})

	require.NoError(t, s.SendText(context.Background(), "alerta de emergencia"))
	require.Equal(t, "+34600000000", gotPhone)
	require.Equal(t, "alerta de emergencia", gotMessage)
}

// TestSendTextGatewayFailure verifies non-2xx answers surface as errors.
func TestSendTextGatewayFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewSender(context.Background(), config.WhatsAppConfig{
		GatewayURL:  server.URL,
		PhoneNumber: "+34600000000",
	})

	require.Error(t, s.SendText(context.Background(), "alerta"))
}
