package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/status"
)

func TestCheckAdmin(t *testing.T) {
	tests := []struct {
		caller *models.User
		name   string
		want   status.Status
	}{
		{name: "admin", caller: &models.User{ID: 1, Role: models.RoleAdmin}, want: status.Success},
		{name: "regular user", caller: &models.User{ID: 2, Role: models.RoleRegular}, want: status.UserNoOperationPerm},
		{name: "unknown role", caller: &models.User{ID: 3, Role: models.Role(7)}, want: status.UserNoOperationPerm},
		{name: "nil caller", caller: nil, want: status.UserNoOperationPerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAdmin(tt.caller))
		})
	}
}

func TestCanRead(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	alice := &models.User{ID: 2, Role: models.RoleRegular}

	assert.True(t, CanRead(admin, 99))
	assert.True(t, CanRead(alice, 2))
	assert.False(t, CanRead(alice, 3))
	assert.False(t, CanRead(nil, 0))
}
