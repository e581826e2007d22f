package auth

import "fmt"

// Role is the closed set of caller roles. Anything outside the set is
// rejected at parse time.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Level returns the privilege ordering used for role comparisons.
func (r Role) Level() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether r carries at least the privilege of required.
func (r Role) AtLeast(required Role) bool {
	return r.Level() >= required.Level()
}

func (r Role) String() string {
	return string(r)
}
