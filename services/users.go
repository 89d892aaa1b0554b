package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/models"
	"storefront/store"
)

// UserService owns the user-administration mutations: role changes, admin
// transfer and revocation, and account deletion. Every check is a pure
// function of the caller's session; a failed check writes nothing.
type UserService struct {
	Store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{Store: st}
}

// List returns every account, managers only.
func (s *UserService) List(ctx context.Context, session *models.Session) ([]models.User, error) {
	if !session.IsManager() {
		return nil, fmt.Errorf("%w: only managers can view users", ErrPermissionDenied)
	}
	return s.Store.Users(ctx)
}

// ChangeRole moves the target between user and manager. Promotion to
// manager may be performed by any manager; demotion to user only by the
// admin manager.
func (s *UserService) ChangeRole(ctx context.Context, session *models.Session, targetID primitive.ObjectID, role models.Role) error {
	if !role.Assignable() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	switch role {
	case models.RoleManager:
		if !session.IsManager() {
			return fmt.Errorf("%w: only managers can promote users", ErrPermissionDenied)
		}
	case models.RoleUser:
		if !session.IsAdminManager() {
			return fmt.Errorf("%w: only the admin manager can demote managers", ErrPermissionDenied)
		}
	}

	target, err := s.Store.UserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role == role {
		return nil
	}
	if err := s.Store.SetUserRole(ctx, targetID, role); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"actor":  session.UserID().Hex(),
		"target": targetID.Hex(),
		"role":   role,
	}).Info("user role changed")
	return nil
}

// SetAdmin grants or revokes the admin flag, admin manager only. Granting
// requires the target to already be a manager. Revoking the caller's own
// flag is allowed. Granting while another account still holds the flag
// leaves two admins; the transfer is explicit, never automatic.
func (s *UserService) SetAdmin(ctx context.Context, session *models.Session, targetID primitive.ObjectID, isAdmin bool) error {
	if !session.IsAdminManager() {
		return fmt.Errorf("%w: only the admin manager can change admin status", ErrPermissionDenied)
	}

	target, err := s.Store.UserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if isAdmin && target.Role != models.RoleManager {
		return fmt.Errorf("%w: admin status requires the manager role", ErrValidation)
	}
	if err := s.Store.SetUserAdmin(ctx, targetID, isAdmin); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"actor":    session.UserID().Hex(),
		"target":   targetID.Hex(),
		"is_admin": isAdmin,
	}).Info("admin status changed")
	return nil
}

// Delete removes an account, admin manager only, never the caller's own.
func (s *UserService) Delete(ctx context.Context, session *models.Session, targetID primitive.ObjectID) error {
	if !session.IsAdminManager() {
		return fmt.Errorf("%w: only the admin manager can delete accounts", ErrPermissionDenied)
	}
	if targetID == session.UserID() {
		return fmt.Errorf("%w: cannot delete your own account", ErrValidation)
	}
	if err := s.Store.DeleteUser(ctx, targetID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"actor":  session.UserID().Hex(),
		"target": targetID.Hex(),
	}).Info("account deleted")
	return nil
}

// SetupAdmin promotes the target to manager if needed and flags it admin.
// Allowed for the current admin manager, or for any authenticated caller
// while no admin exists yet (first-run bootstrap).
func (s *UserService) SetupAdmin(ctx context.Context, session *models.Session, targetID primitive.ObjectID) error {
	if !session.Authenticated() {
		return ErrUnauthenticated
	}
	if !session.IsAdminManager() {
		exists, err := s.adminExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: an admin manager is already set", ErrPermissionDenied)
		}
	}

	target, err := s.Store.UserByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.Role != models.RoleManager {
		if err := s.Store.SetUserRole(ctx, targetID, models.RoleManager); err != nil {
			return err
		}
	}
	if target.IsAdmin {
		return nil
	}
	if err := s.Store.SetUserAdmin(ctx, targetID, true); err != nil {
		return err
	}
	logrus.WithField("target", targetID.Hex()).Info("admin manager set")
	return nil
}

func (s *UserService) adminExists(ctx context.Context) (bool, error) {
	users, err := s.Store.Users(ctx)
	if err != nil {
		return false, err
	}
	for _, user := range users {
		if user.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}
