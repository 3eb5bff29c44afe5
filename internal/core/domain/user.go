package domain

import (
	"fmt"
	"strings"
)

// Role determines what a user may do in the tracker.
type Role string

const (
	RoleSuperAdmin  Role = "SuperAdmin"
	RoleOfficeAdmin Role = "OfficeAdmin"
	RoleFieldAdmin  Role = "FieldAdmin"
)

// roleLabels are the display labels used by the office UI and seed data.
var roleLabels = map[Role]string{
	RoleSuperAdmin:  "Super Admin",
	RoleOfficeAdmin: "Admin Kantor",
	RoleFieldAdmin:  "Admin Lapangan",
}

// Label returns the human-facing name of the role.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// ParseRole accepts either the canonical name ("FieldAdmin") or the display
// label ("Admin Lapangan"), case-insensitively.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for r, label := range roleLabels {
		if strings.EqualFold(s, string(r)) || strings.EqualFold(s, label) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// User models an actor of the tracker. Secret holds the encoded credential and
// is never serialised.
type User struct {
	Username    string `json:"username"`
	Secret      string `json:"-"`
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
}
