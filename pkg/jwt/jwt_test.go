package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, err := signer.GenerateToken(7, "caixa@padaria.local", "Caixa", "CASHIER", []string{"sale:create"}, "v1")
	require.NoError(t, err)

	claims, err := signer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "CASHIER", claims.RoleCode)
	assert.Equal(t, []string{"sale:create"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	token, err := NewSigner("one", time.Hour).GenerateToken(1, "a@b.c", "A", "MANAGER", nil, "v1")
	require.NoError(t, err)

	_, err = NewSigner("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	signer := NewSigner("secret", -time.Hour)
	signer.ttl = -time.Minute
	token, err := signer.GenerateToken(1, "a@b.c", "A", "MANAGER", nil, "v1")
	require.NoError(t, err)

	_, err = signer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewSigner("secret", time.Hour).ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
