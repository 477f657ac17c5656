package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promiseee/pizza-delivery-api/internal/models"
	"github.com/promiseee/pizza-delivery-api/internal/tokens"
)

func TestAuthPolicy_ComputeAdminClaim(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.True(t, env.Policy.ComputeAdminClaim("promiseee"))
	assert.False(t, env.Policy.ComputeAdminClaim("alice"))
}

func TestAuthPolicy_LiveStaffCheck_ReadsCurrentFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice", "a@x.com", false)

	staff, err := env.Policy.LiveStaffCheck(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, staff)

	// Flip the flag in the database: the live check sees it immediately.
	require.NoError(t, env.DB.Model(user).Update("is_staff", true).Error)

	staff, err = env.Policy.LiveStaffCheck(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, staff)

	_, err = env.Policy.LiveStaffCheck(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_GetUser_StaffOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "a@x.com", false)
	env.createUser(t, "staff", "s@x.com", true)

	_, err := env.Users.GetUser(ctx, "alice", alice.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := env.Users.GetUser(ctx, "staff", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = env.Users.GetUser(ctx, "staff", 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteUser_CascadesOrders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "a@x.com", false)
	env.createUser(t, "staff", "s@x.com", true)
	env.placeOrder(t, "alice")

	err := env.Users.DeleteUser(ctx, "alice", alice.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.Users.DeleteUser(ctx, "staff", alice.ID))

	var userCount, orderCount int64
	env.DB.Model(&models.User{}).Where("id = ?", alice.ID).Count(&userCount)
	env.DB.Model(&models.Order{}).Where("user_id = ?", alice.ID).Count(&orderCount)
	assert.Zero(t, userCount)
	assert.Zero(t, orderCount)

	err = env.Users.DeleteUser(ctx, "staff", alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_GrantStaff_UsesFrozenTokenClaim(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "a@x.com", false)
	staff := env.createUser(t, "staff", "s@x.com", true)

	// A live-staff caller without the frozen claim is still rejected.
	staffClaims := &tokens.Claims{AppAdmin: false}
	staffClaims.Subject = staff.Username
	_, err := env.Users.GrantStaff(ctx, staffClaims, alice.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The frozen app_admin claim alone decides, regardless of the caller's
	// current database flags.
	adminClaims := &tokens.Claims{AppAdmin: true}
	adminClaims.Subject = "promiseee"
	granted, err := env.Users.GrantStaff(ctx, adminClaims, alice.ID)
	require.NoError(t, err)
	assert.True(t, granted.IsStaff)

	var fromDB models.User
	require.NoError(t, env.DB.First(&fromDB, alice.ID).Error)
	assert.True(t, fromDB.IsStaff)

	_, err = env.Users.GrantStaff(ctx, adminClaims, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
