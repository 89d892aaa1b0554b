package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/store"
)

func TestPromotionByAnyManager(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	// A plain manager, admin flag not set.
	manager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	target := seedUser(t, st, "bob@example.com", models.RoleUser, false)

	require.NoError(t, users.ChangeRole(context.Background(), manager, target.UserID(), models.RoleManager))

	stored, err := st.UserByID(context.Background(), target.UserID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, stored.Role)
}

func TestPromotionDeniedToNonManagers(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	caller := seedUser(t, st, "user@example.com", models.RoleUser, false)
	target := seedUser(t, st, "bob@example.com", models.RoleUser, false)

	err := users.ChangeRole(context.Background(), caller, target.UserID(), models.RoleManager)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Nothing was written.
	stored, err := st.UserByID(context.Background(), target.UserID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role)
}

func TestDemotionRequiresAdminManager(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	plainManager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	adminManager := seedUser(t, st, "admin@example.com", models.RoleManager, true)
	target := seedUser(t, st, "victim@example.com", models.RoleManager, false)

	err := users.ChangeRole(context.Background(), plainManager, target.UserID(), models.RoleUser)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, users.ChangeRole(context.Background(), adminManager, target.UserID(), models.RoleUser))
	stored, err := st.UserByID(context.Background(), target.UserID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role)
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	admin := seedUser(t, st, "admin@example.com", models.RoleManager, true)
	target := seedUser(t, st, "bob@example.com", models.RoleUser, false)

	err := users.ChangeRole(context.Background(), admin, target.UserID(), models.Role("general"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminTransferIsExplicit(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	admin := seedUser(t, st, "admin@example.com", models.RoleManager, true)
	other := seedUser(t, st, "other@example.com", models.RoleManager, false)

	// Granting admin to another manager does not auto-revoke the caller's
	// flag: two admins exist until the revoke is explicit.
	require.NoError(t, users.SetAdmin(context.Background(), admin, other.UserID(), true))

	callerStored, err := st.UserByID(context.Background(), admin.UserID())
	require.NoError(t, err)
	assert.True(t, callerStored.IsAdmin)

	otherStored, err := st.UserByID(context.Background(), other.UserID())
	require.NoError(t, err)
	assert.True(t, otherStored.IsAdmin)

	// Self-revoke is allowed.
	require.NoError(t, users.SetAdmin(context.Background(), admin, admin.UserID(), false))
	callerStored, err = st.UserByID(context.Background(), admin.UserID())
	require.NoError(t, err)
	assert.False(t, callerStored.IsAdmin)
}

func TestSetAdminGuards(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	plainManager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	admin := seedUser(t, st, "admin@example.com", models.RoleManager, true)
	user := seedUser(t, st, "user@example.com", models.RoleUser, false)

	// Only the admin manager may touch the flag.
	err := users.SetAdmin(context.Background(), plainManager, plainManager.UserID(), true)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The flag only lives on manager profiles.
	err = users.SetAdmin(context.Background(), admin, user.UserID(), true)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteUserRules(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	plainManager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	admin := seedUser(t, st, "admin@example.com", models.RoleManager, true)
	target := seedUser(t, st, "bob@example.com", models.RoleUser, false)

	err := users.Delete(context.Background(), plainManager, target.UserID())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = users.Delete(context.Background(), admin, admin.UserID())
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, users.Delete(context.Background(), admin, target.UserID()))
	_, err = st.UserByID(context.Background(), target.UserID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListUsersManagerOnly(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	manager := seedUser(t, st, "mgr@example.com", models.RoleManager, false)
	user := seedUser(t, st, "user@example.com", models.RoleUser, false)

	_, err := users.List(context.Background(), user)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	all, err := users.List(context.Background(), manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSetupAdminBootstrap(t *testing.T) {
	st := store.NewMemory()
	users := NewUserService(st)

	caller := seedUser(t, st, "founder@example.com", models.RoleUser, false)

	// No admin exists yet: any authenticated caller may bootstrap.
	require.NoError(t, users.SetupAdmin(context.Background(), caller, caller.UserID()))

	stored, err := st.UserByID(context.Background(), caller.UserID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, stored.Role)
	assert.True(t, stored.IsAdmin)

	// Once an admin exists, only the admin manager may run setup again.
	other := seedUser(t, st, "late@example.com", models.RoleUser, false)
	err = users.SetupAdmin(context.Background(), other, other.UserID())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	adminSession := &models.Session{User: stored}
	require.NoError(t, users.SetupAdmin(context.Background(), adminSession, other.UserID()))
	otherStored, err := st.UserByID(context.Background(), other.UserID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, otherStored.Role)
	assert.True(t, otherStored.IsAdmin)
}
