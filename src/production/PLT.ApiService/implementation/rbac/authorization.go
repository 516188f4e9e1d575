package rbac

import (
	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
)

// AdminRequiredMessage is the caller-visible message for every admin-gated
// operation; authorization failures always name the missing requirement.
const AdminRequiredMessage = "Admin role required."

// Authorizer provides authorization operations
type Authorizer struct {
	rbacService *Service
}

// NewAuthorizer creates a new authorizer
func NewAuthorizer(rbacService *Service) *Authorizer {
	return &Authorizer{
		rbacService: rbacService,
	}
}

// RequireAdmin fails unless the caller's role is admin.
func (a *Authorizer) RequireAdmin(role string) error {
	if !a.rbacService.IsAdmin(role) {
		return plterrors.NewAuthorization(AdminRequiredMessage)
	}
	return nil
}

// IsOwner checks if user owns the resource
func (a *Authorizer) IsOwner(userID, resourceUserID string) bool {
	return userID == resourceUserID
}

// RequireOwnerOrAdmin allows self-service operations: the caller must own
// the target resource or be an admin.
func (a *Authorizer) RequireOwnerOrAdmin(userID, role, resourceUserID string) error {
	if a.rbacService.IsAdmin(role) {
		return nil
	}
	if a.IsOwner(userID, resourceUserID) {
		return nil
	}
	return plterrors.NewAuthorization(AdminRequiredMessage)
}
