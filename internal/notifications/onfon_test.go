package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnfon_SendSMS(t *testing.T) {
	var got onfonRequest
	var path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewOnfon(OnfonConfig{
		BaseURL:     srv.URL + "/",
		APIKey:      "key",
		ClientID:    "client",
		SenderID:    "FARMREG",
		CountryCode: "254",
	}, srv.Client())

	err := gw.SendSMS(context.Background(), "0712345678", "Your verification code is 123456.")
	require.NoError(t, err)

	assert.Equal(t, onfonSendPath, path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "FARMREG", got.SenderID)
	assert.True(t, got.IsUnicode)
	assert.True(t, got.IsFlash)
	assert.Equal(t, "key", got.APIKey)
	assert.Equal(t, "client", got.ClientID)
	require.Len(t, got.MessageParameters, 1)
	assert.Equal(t, "254712345678", got.MessageParameters[0].Number)
	assert.Equal(t, "Your verification code is 123456.", got.MessageParameters[0].Text)
}

func TestOnfon_NonOKIsFailure(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		gw := NewOnfon(OnfonConfig{BaseURL: srv.URL, CountryCode: "254"}, srv.Client())

		err := gw.SendSMS(context.Background(), "+254712345678", "hi")
		assert.ErrorIs(t, err, ErrDeliveryFailed, "status %d", status)
		srv.Close()
	}
}

func TestOnfon_RespectsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	gw := NewOnfon(OnfonConfig{BaseURL: srv.URL, CountryCode: "254"}, srv.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gw.SendSMS(ctx, "0712345678", "hi")
	assert.ErrorIs(t, err, context.Canceled)
}
