package auth

import (
	"errors"
	"strings"

	"summercamp/models"
)

// ErrForbidden is returned when the caller's role is outside the required set.
var ErrForbidden = errors.New("forbidden: insufficient role")

// Role is the closed set of account roles. RoleNone stands for an unknown
// account and is never granted anything.
type Role int

const (
	RoleNone Role = iota
	RoleLearner
	RoleInstructor
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleLearner:
		return models.RoleLearner
	case RoleInstructor:
		return models.RoleInstructor
	case RoleAdmin:
		return models.RoleAdmin
	default:
		return "none"
	}
}

// Outranks orders roles for actions on other accounts.
func (r Role) Outranks(other Role) bool {
	return r > other
}

// ParseRole maps a stored role string to a Role.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case models.RoleLearner:
		return RoleLearner, true
	case models.RoleInstructor:
		return RoleInstructor, true
	case models.RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleNone, false
	}
}

// RoleSet is a capability set of roles.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var set RoleSet
	for _, r := range roles {
		if r == RoleNone {
			continue
		}
		set |= 1 << uint(r)
	}
	return set
}

// Allows reports whether r is in the set. RoleNone is never allowed.
func (s RoleSet) Allows(r Role) bool {
	if r == RoleNone {
		return false
	}
	return s&(1<<uint(r)) != 0
}

var (
	AdminOnly         = NewRoleSet(RoleAdmin)
	AdminOrInstructor = NewRoleSet(RoleAdmin, RoleInstructor)
	AnyRole           = NewRoleSet(RoleLearner, RoleInstructor, RoleAdmin)
)
