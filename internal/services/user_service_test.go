package services_test

import (
	"context"
	"testing"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, m *marketplace, username string, role models.Role) *models.User {
	t.Helper()
	u, err := m.users.Register(context.Background(), &dto.RegisterRequest{
		Username: username,
		Password: "correct-horse",
		UserType: role,
	})
	require.NoError(t, err)
	return u
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()

	created := register(t, m, "acme-store", models.RoleRequester)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)

	user, token, expiresAt, err := m.users.Login(ctx, &dto.LoginRequest{Username: "ACME-store", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	actor, err := m.users.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: created.ID, Role: models.RoleRequester, Username: "acme-store"}, actor)
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	register(t, m, "fixer", models.RoleProvider)

	_, _, _, errWrongPass := m.users.Login(ctx, &dto.LoginRequest{Username: "fixer", Password: "nope-nope"})
	_, _, _, errUnknown := m.users.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "nope-nope"})

	assert.ErrorIs(t, errWrongPass, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, services.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
}

func TestUserService_RegisterDuplicateUsername(t *testing.T) {
	m := newMarketplace(t)
	register(t, m, "dup", models.RoleProvider)

	_, err := m.users.Register(context.Background(), &dto.RegisterRequest{
		Username: "DUP",
		Password: "correct-horse",
		UserType: models.RoleRequester,
	})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestUserService_AuthenticateRejectsGarbage(t *testing.T) {
	m := newMarketplace(t)
	_, err := m.users.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.Equal(t, "InvalidToken", services.ErrorKind(err))
}

func TestUserService_LogoutRevokesToken(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	register(t, m, "leaver", models.RoleRequester)

	_, token, _, err := m.users.Login(ctx, &dto.LoginRequest{Username: "leaver", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, m.users.Logout(ctx, token))
	_, err = m.users.Authenticate(ctx, token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.Len(t, m.revoker.revoked, 1)
}

func TestUserService_UpdateProfileMergesData(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	actor := m.seedUser(t, "profiled", models.RoleProvider)

	name := "Pro Fixer"
	_, err := m.users.UpdateProfile(ctx, actor, &dto.UpdateProfileRequest{
		DisplayName: &name,
		ProfileData: models.Document{"specialty": "wood", "years": 4},
	})
	require.NoError(t, err)

	user, err := m.users.UpdateProfile(ctx, actor, &dto.UpdateProfileRequest{
		ProfileData: models.Document{"years": nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pro Fixer", user.DisplayName)
	assert.Equal(t, models.Document{"specialty": "wood"}, user.ProfileData)

	me, err := m.users.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, user.ProfileData, me.ProfileData)
}

func TestUserService_MeForUnknownAccount(t *testing.T) {
	m := newMarketplace(t)
	_, err := m.users.Me(context.Background(), models.Actor{UserID: 999, Role: models.RoleProvider})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestUserService_Reputation(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	requester := m.seedUser(t, "store", models.RoleRequester)
	provider := m.seedUser(t, "assembler", models.RoleProvider)

	job := m.completedJob(t, requester, provider)
	quality := 3
	_, _, err := m.ratings.SubmitRating(ctx, requester, job.ID, &dto.SubmitRatingRequest{Score: 4, Quality: &quality})
	require.NoError(t, err)

	rep, err := m.users.Reputation(ctx, provider.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Count)
	assert.InDelta(t, 4.0, rep.AvgScore, 0.001)
	assert.InDelta(t, 3.0, rep.AvgQuality, 0.001)
	assert.InDelta(t, 5.0, rep.AvgPunctuality, 0.001)

	_, err = m.users.Reputation(ctx, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
