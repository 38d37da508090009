package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the static capability bundle assigned to a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleImporter Role = "importer"
	RoleEditor   Role = "editor"
	RoleViewer   Role = "viewer"
)

// Valid reports whether the role is one of the known bundles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleImporter, RoleEditor, RoleViewer:
		return true
	}

	return false
}

// User represents a staff account.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
