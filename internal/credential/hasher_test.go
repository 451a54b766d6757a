package credential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vijay7733/roomgate/internal/credential"
)

// MinCost keeps the round trips fast; the cost factor does not change
// correctness.
var hasher = credential.BcryptHasher{Cost: bcrypt.MinCost}

func TestHashVerifyRoundTrip(t *testing.T) {
	for _, pin := range []string{"0000", "1234", "9999"} {
		hash, err := hasher.Hash(pin)
		require.NoError(t, err)
		assert.True(t, hasher.Verify(pin, hash), "pin %q should verify against its own hash", pin)
	}
}

func TestVerifyWrongPIN(t *testing.T) {
	hash, err := hasher.Hash("1234")
	require.NoError(t, err)

	assert.False(t, hasher.Verify("4321", hash))
	assert.False(t, hasher.Verify("12345", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	// an empty stored hash marks a not-yet-provisioned identity
	assert.False(t, hasher.Verify("1234", ""))
	assert.False(t, hasher.Verify("1234", "not-a-bcrypt-hash"))
}

func TestHashDefaultCost(t *testing.T) {
	hash, err := credential.BcryptHasher{}.Hash("1234")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, credential.DefaultCost, cost)
}
