package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 101, SessionClaims{Nickname: "Rockhopper", Color: 4, Member: true}, time.Minute)
	require.NoError(t, err)

	claims, err := ParseSessionToken("secret", tok.Token)

	require.NoError(t, err)
	id, err := claims.PenguinID()
	require.NoError(t, err)
	assert.Equal(t, 101, id)
	assert.Equal(t, "Rockhopper", claims.Nickname)
	assert.Equal(t, RolePlayer, claims.Role)
	assert.True(t, claims.Member)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", 101, SessionClaims{Nickname: "x"}, time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("other", tok.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionToken_Expired(t *testing.T) {
	tok, err := NewSessionToken("secret", 101, SessionClaims{Nickname: "x"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPenguinID_BadSubject(t *testing.T) {
	_, err := SessionClaims{}.PenguinID()

	assert.ErrorIs(t, err, ErrInvalidToken)
}
