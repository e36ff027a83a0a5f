package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Password123!")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Password123!", hash)

	assert.True(t, Verify("Password123!", hash))
	assert.False(t, Verify("WrongPassword", hash))
}

func TestHash_UniqueSalt(t *testing.T) {
	first, err := Hash("Password123!")
	require.NoError(t, err)
	second, err := Hash("Password123!")
	require.NoError(t, err)

	// Same plaintext must not produce the same hash
	assert.NotEqual(t, first, second)
	assert.True(t, Verify("Password123!", first))
	assert.True(t, Verify("Password123!", second))
}

func TestVerify_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty hash", hash: ""},
		{name: "garbage hash", hash: "not-a-bcrypt-hash"},
		{name: "truncated hash", hash: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("Password123!", tt.hash))
		})
	}
}
