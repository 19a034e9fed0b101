package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt1, SaltSize)

	salt2, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2, "две соли не должны совпадать")
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"), hash)
	assert.Len(t, strings.Split(hash, "$"), 6)

	_, err = HashPassword("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestHashPassword_Salted(t *testing.T) {
	// Один и тот же пароль дает разные хеши из-за случайной соли
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		encoded  string
		wantErr  error
		anyErr   bool
	}{
		{name: "correct password", password: "s3cret-password", encoded: hash},
		{name: "wrong password", password: "wrong-password", encoded: hash, wantErr: ErrPasswordMismatch},
		{name: "empty password", password: "", encoded: hash, anyErr: true},
		{name: "garbage hash", password: "s3cret-password", encoded: "not-a-hash", wantErr: ErrInvalidHash},
		{name: "wrong algorithm", password: "s3cret-password", encoded: "$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA", wantErr: ErrInvalidHash},
		{name: "bad params", password: "s3cret-password", encoded: "$argon2id$v=19$x$AAAA$AAAA", wantErr: ErrInvalidHash},
		{name: "bad salt encoding", password: "s3cret-password", encoded: "$argon2id$v=19$m=1024,t=1,p=1$!!!$AAAA", wantErr: ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.password, tt.encoded)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
