package rbac

import (
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

// Service provides RBAC operations over the closed two-value role set.
type Service struct{}

// NewService creates a new RBAC service
func NewService() *Service {
	return &Service{}
}

// IsValidRole checks if a role is valid
func (s *Service) IsValidRole(roleName string) bool {
	return pltmodels.IsValidRole(roleName)
}

// IsAdmin checks if a role is admin
func (s *Service) IsAdmin(roleName string) bool {
	return roleName == pltmodels.RoleAdmin
}

// IsUser checks if a role is user
func (s *Service) IsUser(roleName string) bool {
	return roleName == pltmodels.RoleUser
}
