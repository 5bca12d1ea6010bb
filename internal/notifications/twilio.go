package notifications

import (
	"context" // Request-scoped cancellation
	"fmt"     // Error wrapping

	"github.com/twilio/twilio-go"                          // Twilio REST client
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010" // Messages API

	"farmer_registry/internal/utils" // Phone normalization
)

// messageCreator is the slice of the Twilio API this gateway uses
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio sends SMS through the Twilio messaging API
type Twilio struct {
	api         messageCreator
	fromNumber  string
	countryCode string
}

// NewTwilio creates a Twilio gateway
func NewTwilio(accountSID, authToken, fromNumber, countryCode string) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Twilio{api: client.Api, fromNumber: fromNumber, countryCode: countryCode}
}

// SendSMS sends message to phone in E.164 form
func (t *Twilio) SendSMS(ctx context.Context, phone, message string) error {
	// The Twilio client takes no context; honour cancellation before the call.
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("+" + utils.NormalizePhone(phone, t.countryCode)) // E.164
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}
