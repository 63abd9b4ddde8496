package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenworks/studio-portal-backend/internal/config"
	"github.com/lumenworks/studio-portal-backend/internal/repository"
	"github.com/lumenworks/studio-portal-backend/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     1,
		RefreshExpiry: 7,
		LoginTokenTTL: 15,
		PortalURL:     "http://localhost:3000",
	}
}

func seedLoginToken(t *testing.T, profiles *fakeProfileRepo, email string) (string, string) {
	t.Helper()
	secret := "plain-secret"
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	lt := &repository.LoginToken{
		ID:         uuid.New().String(),
		Email:      email,
		SecretHash: string(hash),
		ExpiresAt:  time.Now().Add(15 * time.Minute),
	}
	require.NoError(t, profiles.SaveLoginToken(context.Background(), lt))
	return lt.ID, lt.ID + "." + secret
}

func TestRequestLinkStoresHashedSecret(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	invites := newFakeInviteRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))

	svc := NewAuthService(testConfig(), profiles, invites, nil, nil)
	require.NoError(t, svc.RequestLink(ctx, "Staff@Lumenworks.dev "))

	require.Len(t, profiles.loginTokens, 1)
	for _, lt := range profiles.loginTokens {
		assert.Equal(t, "staff@lumenworks.dev", lt.Email)
		// bcrypt hash, never the raw secret
		assert.True(t, strings.HasPrefix(lt.SecretHash, "$2"))
		assert.Nil(t, lt.UsedAt)
	}
}

func TestRequestLinkUnknownAddressSilent(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)

	require.NoError(t, svc.RequestLink(ctx, "nobody@example.test"))
	assert.Empty(t, profiles.loginTokens)
}

func TestRedeemSingleUse(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))
	_, token := seedLoginToken(t, profiles, "staff@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)

	profile, access, refresh, err := svc.Redeem(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.UID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// Second redemption of the same link fails
	_, _, _, err = svc.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemWrongSecret(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))
	tokenID, _ := seedLoginToken(t, profiles, "staff@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)
	_, _, _, err := svc.Redeem(ctx, tokenID+".wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, _, err = svc.Redeem(ctx, "no-dot-separator")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemExpiredToken(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))
	tokenID, token := seedLoginToken(t, profiles, "staff@lumenworks.dev")
	profiles.loginTokens[tokenID].ExpiresAt = time.Now().Add(-time.Minute)

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)
	_, _, _, err := svc.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemAcceptsPendingInvite(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	invites := newFakeInviteRepo()
	invite := &repository.Invite{
		Email: "new@lumenworks.dev", Role: types.RoleStaff, Token: uuid.New().String(),
		Status: types.InvitePending, ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, invites.Create(ctx, invite))
	_, token := seedLoginToken(t, profiles, "new@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, invites, nil, nil)
	profile, _, _, err := svc.Redeem(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, "new@lumenworks.dev", profile.Email)
	assert.Equal(t, types.RoleStaff, profile.Role)
	assert.True(t, profile.Active)

	stored, err := invites.FindByID(ctx, invite.ID)
	require.NoError(t, err)
	assert.Equal(t, types.InviteAccepted, stored.Status)
}

func TestRedeemInactiveProfile(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "gone@lumenworks.dev", Role: types.RoleStaff, Active: false,
	}))
	_, token := seedLoginToken(t, profiles, "gone@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)
	_, _, _, err := svc.Redeem(ctx, token)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))
	_, token := seedLoginToken(t, profiles, "staff@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)
	_, access, _, err := svc.Redeem(ctx, token)
	require.NoError(t, err)

	profile, err := svc.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.UID)
	assert.Equal(t, types.RoleStaff, profile.Role)
}

func TestAuthenticateRejectsStaleClaimsVersion(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))
	_, token := seedLoginToken(t, profiles, "staff@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)
	_, access, _, err := svc.Redeem(ctx, token)
	require.NoError(t, err)

	// Sync-claims bumps the version; the old session token stops working
	_, err = profiles.BumpClaimsVersion(ctx, "u1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRotates(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo()
	require.NoError(t, profiles.Create(ctx, &repository.Profile{
		UID: "u1", Email: "staff@lumenworks.dev", Role: types.RoleStaff, Active: true,
	}))
	_, token := seedLoginToken(t, profiles, "staff@lumenworks.dev")

	svc := NewAuthService(testConfig(), profiles, newFakeInviteRepo(), nil, nil)
	_, _, refresh, err := svc.Redeem(ctx, token)
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEqual(t, refresh, refresh2)

	// Old refresh token is gone
	_, _, err = svc.RefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
