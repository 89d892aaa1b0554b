package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the access level attached to a user's profile.
type Role string

const (
	// RoleGeneral is the role of anonymous visitors and of sessions whose
	// profile has not been loaded yet. It is never stored.
	RoleGeneral Role = "general"
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// Assignable reports whether the role may be written to a profile.
func (r Role) Assignable() bool {
	return r == RoleUser || r == RoleManager
}

// User combines an authentication identity (email, password hash) with the
// application profile keyed by the same document (role, admin flag).
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	Role        Role               `bson:"role" json:"role"`
	IsAdmin     bool               `bson:"is_admin" json:"is_admin"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
