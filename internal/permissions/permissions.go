// Package permissions decides, for a given user and resource, whether an
// action is allowed and at which effective role. Every resource service
// consults it before touching storage.
package permissions

import "errors"

// Effective roles, lowest to highest. RoleNone means no access at all.
type Role string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleOwner  Role = "owner"
)

func (r Role) rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleOwner:
		return 3
	}
	return 0
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

func maxRole(a, b Role) Role {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionShare  Action = "share"
	ActionDelete Action = "delete"
)

// MinRole maps an action to the lowest role that may perform it.
func MinRole(a Action) Role {
	switch a {
	case ActionRead:
		return RoleViewer
	case ActionWrite:
		return RoleEditor
	}
	return RoleOwner
}

var (
	// ErrNotFound covers both a missing resource and a resource the user
	// cannot see. The two are deliberately indistinguishable so that a
	// denied read never leaks existence.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the user can see the resource but
	// lacks the role the action requires.
	ErrForbidden = errors.New("forbidden")
)

func authorize(role Role, action Action) error {
	if role == RoleNone {
		return ErrNotFound
	}
	if !role.AtLeast(MinRole(action)) {
		return ErrForbidden
	}
	return nil
}
