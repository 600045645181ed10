package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "alumni")
	require.NoError(t, err)

	claims, err := ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "alumni", claims.Role)
}

func TestValidToken_Garbage(t *testing.T) {
	_, err := ValidToken("not.a.jwt")
	assert.Error(t, err)
}

func TestValidToken_Tampered(t *testing.T) {
	token, err := GenerateToken(7, "alumni")
	require.NoError(t, err)

	_, err = ValidToken(token + "x")
	assert.Error(t, err)
}
