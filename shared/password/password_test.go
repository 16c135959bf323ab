package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/shared/password"
)

func TestHashVerify(t *testing.T) {
	hash, err := password.Hash("geheim123")
	require.NoError(t, err)
	assert.NotEqual(t, "geheim123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.NoError(t, password.Verify("geheim123", hash))
	assert.ErrorIs(t, password.Verify("geheim124", hash), password.ErrInvalidPassword)
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("geheim123")
	require.NoError(t, err)

	second, err := password.Hash("geheim123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHash_Empty(t *testing.T) {
	_, err := password.Hash("")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)
}

func TestVerify_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		password string
		hash     string
	}{
		{name: "empty password", hash: "$2a$10$abc"},
		{name: "empty hash", password: "geheim123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, password.Verify(tt.password, tt.hash), password.ErrInvalidPassword)
		})
	}

	err := password.Verify("geheim123", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, password.ErrInvalidPassword)
}
