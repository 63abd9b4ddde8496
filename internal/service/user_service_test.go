package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

func TestSetRoleBumpsClaimsVersion(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "u@lumenworks.dev", Role: types.RoleUser, Active: true,
	}))

	svc := NewUserService(profiles)

	updated, err := svc.SetRole(ctx, "u1", types.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, types.RoleStaff, updated.Role)
	assert.Equal(t, 1, updated.ClaimsVersion)

	// Setting the same role again does not churn the version
	same, err := svc.SetRole(ctx, "u1", types.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, 1, same.ClaimsVersion)

	_, err = svc.SetRole(ctx, "u1", "superuser")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetActiveDeactivationInvalidatesTokens(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "u@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))

	svc := NewUserService(profiles)

	updated, err := svc.SetActive(ctx, "u1", false)
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, 1, updated.ClaimsVersion)

	// Reactivation restores access without another bump
	updated, err = svc.SetActive(ctx, "u1", true)
	require.NoError(t, err)
	assert.True(t, updated.Active)
	assert.Equal(t, 1, updated.ClaimsVersion)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "u@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))

	svc := NewUserService(profiles)

	name := "Dana Smith"
	updated, err := svc.UpdateProfile(ctx, "u1", &name)
	require.NoError(t, err)
	assert.Equal(t, "Dana Smith", updated.Name)

	_, err = svc.UpdateProfile(ctx, "missing", &name)
	assert.ErrorIs(t, err, ErrNotFound)
}
