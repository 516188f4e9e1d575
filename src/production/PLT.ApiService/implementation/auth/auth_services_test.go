package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	jwt "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/jwt"
	rbac "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/rbac"
	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	api_models "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models/api"
)

// --- fakes ---

// fakeUserRepo is an in-memory UserRepository holding users in insertion
// order and enforcing the unique-email constraint.
type fakeUserRepo struct {
	users []*pltmodels.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *pltmodels.User) (*pltmodels.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, plterrors.NewValidation("Email is taken")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	for i := range user.MyPis {
		if user.MyPis[i].ID.IsZero() {
			user.MyPis[i].ID = primitive.NewObjectID()
		}
	}
	stored := *user
	f.users = append(f.users, &stored)
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID string) (*pltmodels.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == userID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*pltmodels.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAll(ctx context.Context) ([]*pltmodels.User, error) {
	out := make([]*pltmodels.User, 0, len(f.users))
	for _, user := range f.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUserRepo) PushPi(ctx context.Context, userID string, pi pltmodels.Pi) (*pltmodels.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == userID {
			if pi.ID.IsZero() {
				pi.ID = primitive.NewObjectID()
			}
			user.MyPis = append(user.MyPis, pi)
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, userID, role string) (*pltmodels.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == userID {
			user.Role = role
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, userID string) (*pltmodels.User, error) {
	for i, user := range f.users {
		if user.ID.Hex() == userID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) AllSessionsByUser(ctx context.Context) ([]pltmodels.UserSessions, error) {
	return []pltmodels.UserSessions{}, nil
}

func (f *fakeUserRepo) SessionsByCity(ctx context.Context, city, userID string) ([]pltmodels.DataSession, error) {
	return []pltmodels.DataSession{}, nil
}

func (f *fakeUserRepo) SessionsByLocation(ctx context.Context, location, userID string) ([]pltmodels.DataSession, error) {
	return []pltmodels.DataSession{}, nil
}

func (f *fakeUserRepo) SessionsByPiNickname(ctx context.Context, nickname, userID string) ([]pltmodels.DataSession, error) {
	return []pltmodels.DataSession{}, nil
}

func (f *fakeUserRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

// --- helpers ---

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	jwtService := jwt.NewService(api_models.Config{
		SecretKey:            "test-secret",
		Issuer:               "plt-test",
		UserTokenDuration:    24 * time.Hour,
		SessionTokenDuration: 365 * 24 * time.Hour,
	})
	return NewAuthService(repo, jwtService, rbac.NewService(), bcrypt.MinCost)
}

func signupRequest() SignupRequest {
	return SignupRequest{
		Email:    "new@tess.com",
		Password: "password",
		MyPis:    []pltmodels.Pi{{Nickname: "myFirstPi"}},
	}
}

// --- tests ---

func TestRegisterStoresOnlyHash(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.Equal(t, "new@tess.com", user.Email)
	assert.Equal(t, pltmodels.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash)
	require.Len(t, user.MyPis, 1)
	assert.False(t, user.MyPis[0].ID.IsZero())

	stored, err := repo.GetByEmail(context.Background(), "new@tess.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password")))
}

func TestRegisterRequiresAtLeastOnePi(t *testing.T) {
	svc := newTestAuthService(&fakeUserRepo{})

	req := signupRequest()
	req.MyPis = nil

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindValidation))
	assert.EqualError(t, err, "Pi registration required.")
}

func TestRegisterRequiresPiNicknames(t *testing.T) {
	svc := newTestAuthService(&fakeUserRepo{})

	req := signupRequest()
	req.MyPis = []pltmodels.Pi{{Nickname: "fine"}, {Description: "no nickname"}}

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.EqualError(t, err, "Pi nickname required.")
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), signupRequest())
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindValidation))
	assert.EqualError(t, err, "Email is taken")
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService(&fakeUserRepo{})

	req := signupRequest()
	req.Role = "superadmin"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindValidation))
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "new@tess.com", "password")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(context.Background(), "new@tess.com", "notright")
	require.Error(t, wrongPassword)
	_, unknownEmail := svc.Authenticate(context.Background(), "badEmail@notgood.io", "password")
	require.Error(t, unknownEmail)

	assert.True(t, plterrors.IsKind(wrongPassword, plterrors.KindAuthentication))
	assert.True(t, plterrors.IsKind(unknownEmail, plterrors.KindAuthentication))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.EqualError(t, wrongPassword, InvalidCredentialsMessage)
}

func TestSetRoleRequiresAdmin(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	target, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, err = svc.SetRole(context.Background(), pltmodels.RoleUser, target.ID.Hex(), pltmodels.RoleAdmin)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindAuthorization))
	assert.EqualError(t, err, "Admin role required.")

	updated, err := svc.SetRole(context.Background(), pltmodels.RoleAdmin, target.ID.Hex(), pltmodels.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, pltmodels.RoleAdmin, updated.Role)
	assert.Empty(t, updated.PasswordHash)
}

func TestSetRoleUnknownUser(t *testing.T) {
	svc := newTestAuthService(&fakeUserRepo{})

	_, err := svc.SetRole(context.Background(), pltmodels.RoleAdmin, primitive.NewObjectID().Hex(), pltmodels.RoleAdmin)
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindNotFound))
}

func TestDeleteRequiresAdmin(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	target, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), pltmodels.RoleUser, target.ID.Hex())
	require.Error(t, err)
	assert.True(t, plterrors.IsKind(err, plterrors.KindAuthorization))
	assert.EqualError(t, err, "Admin role required.")

	deleted, err := svc.Delete(context.Background(), pltmodels.RoleAdmin, target.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, target.ID, deleted.ID)
	assert.Empty(t, deleted.PasswordHash)

	gone, err := repo.GetByID(context.Background(), target.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestIssueTokenReflectsRoleAtIssuance(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), signupRequest())
	require.NoError(t, err)

	before, err := svc.IssueToken(user)
	require.NoError(t, err)

	promoted, err := svc.SetRole(context.Background(), pltmodels.RoleAdmin, user.ID.Hex(), pltmodels.RoleAdmin)
	require.NoError(t, err)

	after, err := svc.IssueToken(promoted)
	require.NoError(t, err)

	// Tokens embed the role as of issuance: the old token keeps the old
	// role until reissued.
	jwtService := jwt.NewService(api_models.Config{
		SecretKey:            "test-secret",
		Issuer:               "plt-test",
		UserTokenDuration:    24 * time.Hour,
		SessionTokenDuration: 365 * 24 * time.Hour,
	})
	fromBefore, err := jwtService.DecodeUserToken(before)
	require.NoError(t, err)
	fromAfter, err := jwtService.DecodeUserToken(after)
	require.NoError(t, err)

	assert.Equal(t, pltmodels.RoleUser, fromBefore.Role)
	assert.Equal(t, pltmodels.RoleAdmin, fromAfter.Role)
}
