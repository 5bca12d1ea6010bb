package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageQuery_Normalize(t *testing.T) {
	tests := []struct {
		in   PageQuery
		want PageQuery
	}{
		{in: PageQuery{}, want: PageQuery{Page: 1, Limit: 10}},
		{in: PageQuery{Page: 3, Limit: 25, Search: "x"}, want: PageQuery{Page: 3, Limit: 25, Search: "x"}},
		{in: PageQuery{Page: -2, Limit: 101}, want: PageQuery{Page: 1, Limit: 10}},
		{in: PageQuery{Page: 1, Limit: 100}, want: PageQuery{Page: 1, Limit: 100}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
	assert.Equal(t, 20, PageQuery{Page: 3, Limit: 10}.Offset())
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		want        PageMeta
	}{
		{page: 1, limit: 10, total: 0, want: PageMeta{Total: 0, Page: 1, Pages: 0}},
		{page: 1, limit: 10, total: 10, want: PageMeta{Total: 10, Page: 1, Pages: 1}},
		{page: 1, limit: 10, total: 11, want: PageMeta{Total: 11, Page: 1, Pages: 2, HasNextPage: true}},
		{page: 2, limit: 10, total: 11, want: PageMeta{Total: 11, Page: 2, Pages: 2, HasPrevPage: true}},
	}
	for _, tt := range tests {
		got := NewPageMeta(PageQuery{Page: tt.page, Limit: tt.limit}, tt.total)
		assert.Equal(t, tt.want, got)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrPhoneExists, ErrConflict},
		{ErrEmailExists, ErrConflict},
		{ErrInvalidCredentials, ErrUnauthorized},
		{ErrOtpExpired, ErrUnauthorized},
		{ErrInvalidResetCode, ErrUnauthorized},
		{ErrOtpDelivery, ErrBadRequest},
		{ErrNewPinRequired, ErrBadRequest},
		{ErrUserNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("context: %w", tt.err)
		assert.ErrorIs(t, wrapped, tt.kind, tt.err.Error())
		assert.ErrorIs(t, wrapped, tt.err)
	}
	assert.False(t, errors.Is(ErrPhoneExists, ErrUnauthorized))
	assert.Equal(t, "OTP has expired", ErrOtpExpired.Error())
}

func TestPendingOtp(t *testing.T) {
	expiry := time.Date(2025, 5, 7, 17, 56, 51, 0, time.UTC)
	p := PendingOtp{Code: "012345", ExpiresAt: expiry}

	assert.False(t, p.Expired(expiry))
	assert.True(t, p.Expired(expiry.Add(time.Second)))
	assert.True(t, p.Matches("012345"))
	assert.False(t, p.Matches("12345"))
	assert.False(t, p.Matches("012346"))
}

func TestEnums(t *testing.T) {
	assert.True(t, GenderFemale.Valid())
	assert.False(t, Gender("female").Valid())
	assert.True(t, OwnershipCommunal.Valid())
	assert.False(t, Ownership("Rented").Valid())
}

func TestUserJSONHidesSecrets(t *testing.T) {
	u := User{
		ID:         "u1",
		Profile:    Profile{FirstName: "Mwangi", PhoneNumber: "+254712345678"},
		PendingOtp: &PendingOtp{Code: "654321"},
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "654321")
	assert.Contains(t, string(b), `"firstName":"Mwangi"`)
}

func TestUserChangesOtpSlot(t *testing.T) {
	var c UserChanges
	_, changed := c.Otp()
	assert.False(t, changed)

	c.SetOtp(PendingOtp{Code: "111111"})
	p, changed := c.Otp()
	assert.True(t, changed)
	require.NotNil(t, p)
	assert.Equal(t, "111111", p.Code)

	c.ClearOtp()
	p, changed = c.Otp()
	assert.True(t, changed)
	assert.Nil(t, p)
}
