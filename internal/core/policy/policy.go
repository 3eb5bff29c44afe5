// Package policy holds the stateless authorization rules shared by the
// services and by route guards.
package policy

import "github.com/sitepulse/progress-tracker/internal/core/domain"

// CanAccessAdminArea reports whether the role may open the project admin area.
func CanAccessAdminArea(role domain.Role) bool {
	return role == domain.RoleSuperAdmin || role == domain.RoleOfficeAdmin
}

// CanManageUsers reports whether the role may create users.
func CanManageUsers(role domain.Role) bool {
	return role == domain.RoleSuperAdmin
}

// CanHandleProject reports whether user may submit reports for and change the
// status of project. Field admins are limited to their assigned project.
func CanHandleProject(user *domain.User, project *domain.Project) bool {
	if user == nil || project == nil {
		return false
	}
	switch user.Role {
	case domain.RoleSuperAdmin, domain.RoleOfficeAdmin:
		return true
	case domain.RoleFieldAdmin:
		return project.AssignedFieldAdminUsername != "" && user.Username == project.AssignedFieldAdminUsername
	default:
		return false
	}
}
