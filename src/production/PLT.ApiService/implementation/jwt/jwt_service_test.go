package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	api_models "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models/api"
)

func newTestService(userTTL, sessionTTL time.Duration) *Service {
	return NewService(api_models.Config{
		SecretKey:            "test-secret",
		Issuer:               "plt-test",
		UserTokenDuration:    userTTL,
		SessionTokenDuration: sessionTTL,
	})
}

func testUser() *pltmodels.User {
	return &pltmodels.User{
		ID:    primitive.NewObjectID(),
		Email: "user@tess.com",
		Role:  pltmodels.RoleUser,
		MyPis: []pltmodels.Pi{
			{ID: primitive.NewObjectID(), Nickname: "garden", Description: "back yard"},
			{ID: primitive.NewObjectID(), Nickname: "kitchen"},
		},
		Revision: 0,
	}
}

func testSession() *pltmodels.DataSession {
	return &pltmodels.DataSession{
		ID:          primitive.NewObjectID(),
		PiID:        primitive.NewObjectID(),
		SensorTypes: []string{pltmodels.SensorLight, pltmodels.SensorHumidity},
		Location:    "living room",
		City:        "Austin",
		Notes:       "first run",
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)
	user := testUser()

	token, err := svc.IssueUserToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := svc.DecodeUserToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, decoded.ID)
	assert.Equal(t, user.Email, decoded.Email)
	assert.Equal(t, user.Role, decoded.Role)
	assert.Equal(t, user.MyPis, decoded.MyPis)
	assert.Equal(t, user.Revision, decoded.Revision)
	assert.Empty(t, decoded.PasswordHash)
}

func TestUserTokenNeverCarriesPasswordHash(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)
	user := testUser()
	user.PasswordHash = "$2a$10$something"

	token, err := svc.IssueUserToken(user)
	require.NoError(t, err)
	assert.NotContains(t, token, "passwordHash")

	decoded, err := svc.DecodeUserToken(token)
	require.NoError(t, err)
	assert.Empty(t, decoded.PasswordHash)
}

func TestReissuedTokensDifferButDecodeEqually(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)
	user := testUser()

	first, err := svc.IssueUserToken(user)
	require.NoError(t, err)
	second, err := svc.IssueUserToken(user)
	require.NoError(t, err)

	// Each issuance carries a fresh jti, so the opaque strings differ.
	assert.NotEqual(t, first, second)

	fromFirst, err := svc.DecodeUserToken(first)
	require.NoError(t, err)
	fromSecond, err := svc.DecodeUserToken(second)
	require.NoError(t, err)
	assert.Equal(t, fromFirst, fromSecond)
}

func TestDecodeUserTokenExpired(t *testing.T) {
	svc := newTestService(-1*time.Second, 365*24*time.Hour)

	token, err := svc.IssueUserToken(testUser())
	require.NoError(t, err)

	_, err = svc.DecodeUserToken(token)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindInvalidToken))
}

func TestDecodeUserTokenWrongSecret(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)
	other := NewService(api_models.Config{
		SecretKey:            "other-secret",
		Issuer:               "plt-test",
		UserTokenDuration:    24 * time.Hour,
		SessionTokenDuration: 365 * 24 * time.Hour,
	})

	token, err := svc.IssueUserToken(testUser())
	require.NoError(t, err)

	_, err = other.DecodeUserToken(token)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindInvalidToken))
}

func TestDecodeUserTokenMalformed(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)

	_, err := svc.DecodeUserToken("not.a.jwt")
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindInvalidToken))
}

func TestDataSessionTokenRoundTrip(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)
	session := testSession()

	token, err := svc.IssueDataSessionToken(session)
	require.NoError(t, err)

	decoded, err := svc.DecodeDataSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, session, decoded)
}

func TestTokenNamespacesAreNotInterchangeable(t *testing.T) {
	svc := newTestService(24*time.Hour, 365*24*time.Hour)

	userToken, err := svc.IssueUserToken(testUser())
	require.NoError(t, err)
	sessionToken, err := svc.IssueDataSessionToken(testSession())
	require.NoError(t, err)

	_, err = svc.DecodeDataSessionToken(userToken)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindInvalidToken))

	_, err = svc.DecodeUserToken(sessionToken)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindInvalidToken))
}
