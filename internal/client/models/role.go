package models

import "fmt"

// Role is the directory role assigned to a user or employee record.
type Role string

const (
	RoleIntern   Role = "INTERN"
	RoleAdmin    Role = "ADMIN"
	RoleEngineer Role = "ENGINEER"
)

// Valid reports whether r is one of the known directory roles.
func (r Role) Valid() bool {
	switch r {
	case RoleIntern, RoleAdmin, RoleEngineer:
		return true
	}
	return false
}

// ParseRole converts user input into a Role. Matching is exact against the
// canonical upper-case values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q (expected INTERN, ADMIN or ENGINEER)", s)
	}
	return r, nil
}
