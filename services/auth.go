package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/models"
	"storefront/store"
)

// AuthService owns sign-up, sign-in and profile provisioning.
type AuthService struct {
	Store store.Store
}

func NewAuthService(st store.Store) *AuthService {
	return &AuthService{Store: st}
}

// SignUp creates the identity and provisions its profile. The requested role
// is stored as-is for parity with the original system; the admin flag is
// always false. An empty role defaults to user.
func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string, requestedRole models.Role) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if requestedRole == "" {
		requestedRole = models.RoleUser
	}
	if !requestedRole.Assignable() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, requestedRole)
	}

	if _, err := s.Store.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if err != store.ErrNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Email:       email,
		Password:    string(hashed),
		DisplayName: displayName,
		Role:        requestedRole,
		IsAdmin:     false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user": user.ID.Hex(), "role": user.Role}).Info("account created")
	return user, nil
}

// SignIn authenticates the credentials and returns the user. Unknown email
// and wrong password produce the same classification.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Store.UserByEmail(ctx, email)
	if err == store.ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ResolveSession loads the profile for an authenticated identity and wraps
// it in a session. A profile that exists but carries no role yet is lazily
// provisioned with role=user, is_admin=false. Safe to call concurrently for
// the same identity; a duplicate provisioning write is last-write-wins.
func (s *AuthService) ResolveSession(ctx context.Context, userID primitive.ObjectID) (*models.Session, error) {
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == "" {
		if err := s.Store.SetUserRole(ctx, user.ID, models.RoleUser); err != nil {
			return nil, err
		}
		user.Role = models.RoleUser
		user.IsAdmin = false
		logrus.WithField("user", user.ID.Hex()).Info("profile provisioned with default role")
	}
	return &models.Session{User: user}, nil
}

// UpdateDisplayName changes the caller's own display name, the only
// self-mutation a profile owner may perform.
func (s *AuthService) UpdateDisplayName(ctx context.Context, session *models.Session, name string) error {
	if !session.Authenticated() {
		return ErrUnauthenticated
	}
	if name == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	return s.Store.SetUserDisplayName(ctx, session.UserID(), name)
}
