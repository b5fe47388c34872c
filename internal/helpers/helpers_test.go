package helpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, IsPasswordStrong("Secret1!"))
	assert.False(t, IsPasswordStrong("Sh0rt!"))
	assert.False(t, IsPasswordStrong("alllower1!"))
	assert.False(t, IsPasswordStrong("NoDigits!!"))
	assert.False(t, IsPasswordStrong("NoSpecial12"))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	id := uuid.New()

	token, err := GenerateSessionToken(id, secret, time.Hour)
	require.NoError(t, err)

	got, err := ValidateSessionToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ValidateSessionToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateSessionToken(uuid.New(), secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTitleFromName(t *testing.T) {
	assert.Equal(t, "My Cool App", TitleFromName("my-cool_app"))
	assert.Equal(t, "Dotfiles", TitleFromName("dotfiles"))
}

func TestRandomTokenLength(t *testing.T) {
	tok, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 64)
}
