package model

import "fmt"

// Role is the closed set of account roles. Every authorization gate matches
// against these constants; free-form role strings are rejected at the boundary.
type Role string

const (
	RoleAppealer         Role = "Appealer"
	RoleDonor            Role = "Donor"
	RoleVerifier         Role = "Verifier"
	RoleAdmin            Role = "Admin"
	RoleHeadOfDepartment Role = "HeadOfDepartment"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAppealer, RoleDonor, RoleVerifier, RoleAdmin, RoleHeadOfDepartment:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
