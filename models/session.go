package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Session is the acting identity for a single request: the authenticated
// user joined with the profile loaded at request time. Permission checks are
// pure functions of the session, never of ambient state. A nil session, or a
// session without a profile, acts as an anonymous visitor.
type Session struct {
	User *User
}

// UserID returns the acting user's id, or the zero ObjectID when anonymous.
func (s *Session) UserID() primitive.ObjectID {
	if s == nil || s.User == nil {
		return primitive.NilObjectID
	}
	return s.User.ID
}

// Role resolves the caller's role. Anonymous or not-yet-loaded sessions
// resolve to RoleGeneral.
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return RoleGeneral
	}
	return s.User.Role
}

// Authenticated reports whether the session carries a signed-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// IsManager reports whether the caller holds the manager role.
func (s *Session) IsManager() bool {
	return s.Role() == RoleManager
}

// IsAdminManager reports whether the caller is the admin manager: a manager
// additionally flagged is_admin. Every other combination, including an
// admin flag on a non-manager profile, is false.
func (s *Session) IsAdminManager() bool {
	return s != nil && s.User != nil && s.User.Role == RoleManager && s.User.IsAdmin
}
