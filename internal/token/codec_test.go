package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leorodrigs/deathstore-storefront/internal/domain"
)

func segment(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func TestDecode_ValidToken(t *testing.T) {
	raw := segment(`{"alg":"none"}`) + "." +
		segment(`{"sub":42,"name":"Leia","email":"leia@rebels.org","isAdmin":true,"exp":1900000000}`) +
		".sig"

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.Claims{
		SubjectID: 42,
		Name:      "Leia",
		Email:     "leia@rebels.org",
		IsAdmin:   true,
		ExpiresAt: 1900000000,
	}, claims)
}

func TestDecode_PaddedPayload(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte(`{"sub":1,"exp":123}`))
	claims, err := Decode("h." + padded + ".s")
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.SubjectID)
	assert.Equal(t, int64(123), claims.ExpiresAt)
}

func TestDecode_MalformedStructures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no dots", "nodots"},
		{"two segments", "a.b"},
		{"four segments", "a.b.c.d"},
		{"invalid base64", "h.!!!not-base64!!!.s"},
		{"payload not JSON", "h." + segment("not json") + ".s"},
		{"payload JSON array", "h." + segment(`[1,2]`) + ".s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
