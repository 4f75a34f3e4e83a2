package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageToken_RoundTrip(t *testing.T) {
	id := NewID()
	token := EncodePageToken(id)
	require.NotEmpty(t, token)
	assert.NotEqual(t, id, token, "token is opaque")

	got, err := DecodePageToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestDecodePageToken_Empty(t *testing.T) {
	got, err := DecodePageToken("")
	require.NoError(t, err)
	assert.Empty(t, got, "empty token starts from the newest row")
}

func TestDecodePageToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "!!!"},
		{name: "decodes but not an id", token: EncodePageToken("not-a-uuid")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePageToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidPageToken)
		})
	}
}

func TestNewID_Ordered(t *testing.T) {
	// UUID v7 ids sort by creation time, the property cursor pagination
	// depends on.
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		assert.LessOrEqual(t, prev, next)
		prev = next
	}
}
