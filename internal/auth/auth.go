// Package auth evaluates the role and tenant context supplied by the
// external identity layer. The service trusts the values it is given; it
// only maps them onto a closed role set and a capability matrix so that
// authorization is decided once per request instead of ad hoc per handler.
package auth

import "errors"

// Role is the closed set of caller roles this service recognizes.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

// ErrUnknownRole is returned when the supplied role string is not in the
// closed set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates an externally supplied role string.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleLeader, RoleMember:
		return Role(raw), nil
	}
	return "", ErrUnknownRole
}

// Capability names one operator action gated by role.
type Capability string

const (
	CapManageEvents    Capability = "manage_events"
	CapManageScale     Capability = "manage_scale"
	CapToggleChecklist Capability = "toggle_checklist"
	CapViewDashboard   Capability = "view_dashboard"
)

var grants = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapManageEvents:    {},
		CapManageScale:     {},
		CapToggleChecklist: {},
		CapViewDashboard:   {},
	},
	RoleLeader: {
		CapManageEvents:    {},
		CapManageScale:     {},
		CapToggleChecklist: {},
		CapViewDashboard:   {},
	},
	RoleMember: {
		CapToggleChecklist: {},
		CapViewDashboard:   {},
	},
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	caps, ok := grants[r]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}
