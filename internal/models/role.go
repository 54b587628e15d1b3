package models

import "strings"

// Role is the tagged account role variant. Only Admin and User exist.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Action is a permission granted to a role.
type Action string

const (
	ActionManageOwnTasks Action = "manage_own_tasks"
	ActionManageUsers    Action = "manage_users"
	ActionResetPasswords Action = "reset_passwords"
)

// Capability is the permission record derived from a role.
// All authorization logic queries this record, never the raw role string.
type Capability struct {
	Admin   bool
	Actions []Action
}

// ParseRole normalizes a raw role string. "admin" and "user" match
// case-insensitively; blank or unrecognized values normalize to RoleUser.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Capabilities maps the role variant to its permission record.
// This is the single place role tags are interpreted; snapshots may carry
// legacy casing ("admin"), which is normalized through ParseRole here.
func (r Role) Capabilities() Capability {
	if ParseRole(string(r)) == RoleAdmin {
		return Capability{
			Admin: true,
			Actions: []Action{
				ActionManageOwnTasks,
				ActionManageUsers,
				ActionResetPasswords,
			},
		}
	}
	return Capability{
		Actions: []Action{ActionManageOwnTasks},
	}
}
