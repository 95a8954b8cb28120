package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("u1", "SUPER ADMIN", "c1", "s1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "SUPER ADMIN", claims.Role)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "s1", claims.SessionID)
}

func TestExpiredTokenRejected(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("u1", "user", "", "s1", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestTenantPrefix(t *testing.T) {
	assert.Equal(t, "ACM", TenantPrefix("Acme Corp"))
	assert.Equal(t, "XY", TenantPrefix("x-y"))
	assert.Equal(t, "CMP", TenantPrefix("***"))
	assert.Equal(t, "ACM-000042", SequenceID("ACM", 42))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
