// Package notifications delivers SMS messages through the configured gateway.
package notifications

import (
	"context" // Request-scoped cancellation
	"errors"  // Sentinel errors
	"fmt"     // Error formatting

	"github.com/sirupsen/logrus" // Structured logging

	"farmer_registry/internal/config" // SMS provider settings
)

// ErrDeliveryFailed is returned when a gateway rejects a message
var ErrDeliveryFailed = errors.New("sms delivery failed")

// Gateway sends one SMS
type Gateway interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// NewGateway builds the gateway selected by cfg.Provider
func NewGateway(cfg config.SMSConfig, isProd bool, log logrus.FieldLogger) (Gateway, error) {
	switch cfg.Provider {
	case config.SMSOnfon:
		return NewOnfon(OnfonConfig{
			BaseURL:     cfg.OnfonBaseURL,
			APIKey:      cfg.OnfonAPIKey,
			ClientID:    cfg.OnfonClientID,
			SenderID:    cfg.OnfonSenderID,
			CountryCode: cfg.CountryCode,
		}, nil), nil // Default HTTP client
	case config.SMSTwilio:
		if cfg.TwilioAccountSID == "" || cfg.TwilioFrom == "" {
			return nil, errors.New("twilio gateway needs TWILIO_ACCOUNT_SID and TWILIO_FROM_NUMBER")
		}
		return NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.CountryCode), nil
	case config.SMSLog:
		if isProd {
			return nil, errors.New("log sms gateway is not allowed in production")
		}
		return NewLogGateway(log), nil // Development only
	default:
		return nil, fmt.Errorf("unknown sms provider %q", cfg.Provider)
	}
}
