package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		errMsg   string
		wantErr  bool
	}{
		{
			name:     "valid username - lowercase",
			username: "alice",
		},
		{
			name:     "valid username - mixed case with digits",
			username: "AliceSmith42",
		},
		{
			name:     "valid username - dots and hyphens",
			username: "alice.smith-dev_1",
		},
		{
			name:     "valid username - max length",
			username: strings.Repeat("a", MaxUsernameLen),
		},
		{
			name:     "invalid - empty username",
			username: "",
			wantErr:  true,
			errMsg:   "username cannot be empty",
		},
		{
			name:     "invalid - too short (2 chars)",
			username: "ab",
			wantErr:  true,
			errMsg:   "at least 3 characters",
		},
		{
			name:     "invalid - too long",
			username: strings.Repeat("a", MaxUsernameLen+1),
			wantErr:  true,
			errMsg:   "must not exceed 39 characters",
		},
		{
			name:     "invalid - space",
			username: "alice smith",
			wantErr:  true,
			errMsg:   "can only contain",
		},
		{
			name:     "invalid - special chars",
			username: "alice@example",
			wantErr:  true,
			errMsg:   "can only contain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
		wantErr  bool
	}{
		{
			name:     "valid password - exactly 8 chars",
			password: "pass1234",
		},
		{
			name:     "valid password - unicode",
			password: "пароль12",
		},
		{
			name:     "invalid - empty password",
			password: "",
			wantErr:  true,
			errMsg:   "password cannot be empty",
		},
		{
			name:     "invalid - too short (7 chars)",
			password: "pass123",
			wantErr:  true,
			errMsg:   "must be at least 8 characters",
		},
		{
			name:     "invalid - too long",
			password: strings.Repeat("p", MaxPasswordLen+1),
			wantErr:  true,
			errMsg:   "must not exceed 64 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
