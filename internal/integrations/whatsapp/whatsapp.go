package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/logger"
)

// requestTimeout bounds one gateway call. Client-side automation gateways
// are slow; blocking the calling loop for the duration is accepted.
const requestTimeout = 30 * time.Second

// ErrNotConfigured is returned when gateway or phone number are absent.
var ErrNotConfigured = errors.New("whatsapp channel is not configured")

// errGatewayStatus indicates the gateway answered with a non-2xx status.
var errGatewayStatus = errors.New("unexpected gateway status")

// Sender delivers best-effort text messages through an HTTP automation
// gateway that relays them to the caregiver's phone.
type Sender struct {
	gatewayURL  string
	phoneNumber string
	client      *http.Client
}

// NewSender builds a sender from the optional gateway settings.
func NewSender(ctx context.Context, cfg config.WhatsAppConfig) *Sender {
	if cfg.GatewayURL == "" || cfg.PhoneNumber == "" {
		logger.Warn(ctx, "WhatsApp gateway absent, instant-messaging channel disabled")
	}

	return &Sender{
		gatewayURL:  cfg.GatewayURL,
		phoneNumber: cfg.PhoneNumber,
		client:      &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether the sender has a gateway and a target number.
func (s *Sender) Configured() bool {
	return s.gatewayURL != "" && s.phoneNumber != ""
}

// SendText posts the message to the gateway. Best effort: failures are
// reported to the caller and isolated to this channel.
func (s *Sender) SendText(ctx context.Context, text string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	form := url.Values{
		"phone":   {s.phoneNumber},
		"message": {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d: %w", resp.StatusCode, errGatewayStatus)
	}

	logger.InfoKV(ctx, "WhatsApp message relayed", "phone", s.phoneNumber)

	return nil
}
