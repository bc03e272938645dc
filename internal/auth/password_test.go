package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("123abc")
	require.NoError(t, err)
	assert.NotEqual(t, "123abc", digest)

	assert.True(t, h.Verify("123abc", digest))
	assert.False(t, h.Verify("123abd", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHasher_SaltIsRandomizedPerCall(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("hunter22")
	require.NoError(t, err)
	second, err := h.Hash("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("hunter22", first))
	assert.True(t, h.Verify("hunter22", second))
}

func TestHasher_VerifyGarbageDigest(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("123abc", "not a bcrypt digest"))
}

func TestNewHasher_ClampsOutOfRangeCost(t *testing.T) {
	h := NewHasher(1000)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	h = NewHasher(-1)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
