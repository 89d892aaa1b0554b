package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/models"
	"storefront/store"
)

func TestSignUpDefaultsToUserRole(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	user, err := auth.SignUp(context.Background(), "alice@example.com", "secret", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, user.ID)

	// Password is stored hashed, never verbatim.
	assert.NotEqual(t, "secret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))
}

func TestSignUpStoresRequestedRole(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	// The requested role is stored as-is; the admin flag never is.
	user, err := auth.SignUp(context.Background(), "boss@example.com", "secret", "Boss", models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.False(t, user.IsAdmin)
}

func TestSignUpRejectsBadInput(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	_, err := auth.SignUp(context.Background(), "", "secret", "X", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.SignUp(context.Background(), "x@example.com", "", "X", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.SignUp(context.Background(), "x@example.com", "secret", "X", models.Role("root"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	_, err := auth.SignUp(context.Background(), "alice@example.com", "secret", "Alice", "")
	require.NoError(t, err)

	_, err = auth.SignUp(context.Background(), "alice@example.com", "other", "Alice Again", "")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignInClassifiesFailures(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	_, err := auth.SignUp(context.Background(), "alice@example.com", "secret", "Alice", "")
	require.NoError(t, err)

	// Unknown email and wrong password classify identically.
	_, err = auth.SignIn(context.Background(), "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.SignIn(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := auth.SignIn(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestResolveSessionProvisionsMissingRole(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	// An identity whose profile was never provisioned carries no role.
	user := &models.User{Email: "fresh@example.com"}
	require.NoError(t, st.CreateUser(context.Background(), user))

	session, err := auth.ResolveSession(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, session.Role())
	assert.False(t, session.IsAdminManager())

	stored, err := st.UserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.False(t, stored.IsAdmin)
}

func TestResolveSessionIdempotentUnderConcurrency(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	user := &models.User{Email: "fresh@example.com"}
	require.NoError(t, st.CreateUser(context.Background(), user))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := auth.ResolveSession(context.Background(), user.ID)
			assert.NoError(t, err)
			assert.Equal(t, models.RoleUser, session.Role())
		}()
	}
	wg.Wait()

	users, err := st.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, models.RoleUser, users[0].Role)
}

func TestResolveSessionKeepsExistingProfile(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	session := seedUser(t, st, "mgr@example.com", models.RoleManager, true)

	resolved, err := auth.ResolveSession(context.Background(), session.UserID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resolved.Role())
	assert.True(t, resolved.IsAdminManager())
}

func TestUpdateDisplayName(t *testing.T) {
	st := store.NewMemory()
	auth := NewAuthService(st)

	session := seedUser(t, st, "alice@example.com", models.RoleUser, false)

	require.NoError(t, auth.UpdateDisplayName(context.Background(), session, "Alice B."))
	stored, err := st.UserByID(context.Background(), session.UserID())
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", stored.DisplayName)

	assert.ErrorIs(t, auth.UpdateDisplayName(context.Background(), nil, "X"), ErrUnauthenticated)
	assert.ErrorIs(t, auth.UpdateDisplayName(context.Background(), session, ""), ErrValidation)
}
