package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfdez/bookshelf/internal/auth"
)

var secret = []byte("test-secret")

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := auth.NewSessionToken(secret, 42, "eva", []string{"books:change"}, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseSessionToken(secret, token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "eva", claims.Username)
	assert.Equal(t, []string{"books:change"}, claims.Permissions)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, err := auth.NewSessionToken(secret, 1, "eva", nil, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseSessionToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseSessionToken_Expired(t *testing.T) {
	token, err := auth.NewSessionToken(secret, 1, "eva", nil, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseSessionToken(secret, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, err := auth.ParseSessionToken(secret, "not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
