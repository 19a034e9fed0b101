// Package authz holds the role checks shared by every operation that needs them.
package authz

import (
	"github.com/iudanet/tokenkeeper/internal/models"
	"github.com/iudanet/tokenkeeper/internal/status"
)

// CheckAdmin returns status.Success for an administrator and
// status.UserNoOperationPerm for anyone else, including a nil caller.
func CheckAdmin(caller *models.User) status.Status {
	if caller.IsAdmin() {
		return status.Success
	}
	return status.UserNoOperationPerm
}

// CanRead reports whether caller may see a token owned by ownerID.
func CanRead(caller *models.User, ownerID int64) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() || caller.ID == ownerID
}
