package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"farmer_registry/internal/config"
)

type fakeMessages struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = p
	return &twilioApi.ApiV2010Message{}, f.err
}

var _ messageCreator = (*fakeMessages)(nil)

func TestTwilio_SendSMS(t *testing.T) {
	api := &fakeMessages{}
	gw := &Twilio{api: api, fromNumber: "+15005550006", countryCode: "254"}

	require.NoError(t, gw.SendSMS(context.Background(), "0712345678", "code 123456"))

	require.NotNil(t, api.params)
	assert.Equal(t, "+254712345678", *api.params.To)
	assert.Equal(t, "+15005550006", *api.params.From)
	assert.Equal(t, "code 123456", *api.params.Body)
}

func TestTwilio_Failure(t *testing.T) {
	gw := &Twilio{api: &fakeMessages{err: errors.New("21211 invalid number")}, countryCode: "254"}

	err := gw.SendSMS(context.Background(), "0712345678", "hi")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestTwilio_CancelledBeforeSend(t *testing.T) {
	api := &fakeMessages{}
	gw := &Twilio{api: api, countryCode: "254"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, gw.SendSMS(ctx, "0712345678", "hi"), context.Canceled)
	assert.Nil(t, api.params)
}

func TestLogGateway(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	require.NoError(t, NewLogGateway(logger).SendSMS(context.Background(), "+254712345678", "code 123456"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "+254712345678", entry.Data["phone"])
	assert.Contains(t, entry.Message, "code 123456")
}

func TestNewGateway(t *testing.T) {
	log := logrus.New()

	gw, err := NewGateway(config.SMSConfig{Provider: config.SMSOnfon, CountryCode: "254"}, true, log)
	require.NoError(t, err)
	assert.IsType(t, &Onfon{}, gw)

	gw, err = NewGateway(config.SMSConfig{Provider: config.SMSTwilio, TwilioAccountSID: "AC123", TwilioFrom: "+15005550006"}, true, log)
	require.NoError(t, err)
	assert.IsType(t, &Twilio{}, gw)

	_, err = NewGateway(config.SMSConfig{Provider: config.SMSTwilio}, false, log)
	assert.Error(t, err)

	gw, err = NewGateway(config.SMSConfig{Provider: config.SMSLog}, false, log)
	require.NoError(t, err)
	assert.IsType(t, &LogGateway{}, gw)

	_, err = NewGateway(config.SMSConfig{Provider: config.SMSLog}, true, log)
	assert.Error(t, err)

	_, err = NewGateway(config.SMSConfig{Provider: "carrier-pigeon"}, false, log)
	assert.Error(t, err)
}
