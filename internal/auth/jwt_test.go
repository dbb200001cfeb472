package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("u-1", "alice", "Admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "Admin", claims.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	prev := current()
	t.Cleanup(func() { Configure(prev) })

	token, err := GenerateToken("u-1", "alice", "User")
	require.NoError(t, err)

	Configure(Settings{Audience: "someone-else"})
	_, err = ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidAudience)
}
