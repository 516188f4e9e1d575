package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	jwt "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/jwt"
	rbac "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/rbac"
	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	interfaces "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Repository/Interfaces"
)

// InvalidCredentialsMessage is deliberately identical for an unknown email
// and a wrong password so callers cannot enumerate registered accounts.
const InvalidCredentialsMessage = "Invalid Email or Password"

// AuthService aggregates credential operations: signup, login, role
// changes, and account deletion.
type AuthService struct {
	userRepo    interfaces.UserRepository
	jwtService  *jwt.Service
	authorizer  *rbac.Authorizer
	rbacService *rbac.Service
	bcryptCost  int
}

type SignupRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Role     string         `json:"role"`
	MyPis    []pltmodels.Pi `json:"myPis"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo interfaces.UserRepository,
	jwtService *jwt.Service,
	rbacService *rbac.Service,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		authorizer:  rbac.NewAuthorizer(rbacService),
		rbacService: rbacService,
		bcryptCost:  bcryptCost,
	}
}

// Register creates a user. A signup must bring at least one pi, every pi
// needs a nickname, and only the bcrypt hash of the password is stored.
func (s *AuthService) Register(ctx context.Context, req SignupRequest) (*pltmodels.User, error) {
	if req.Email == "" {
		return nil, plterrors.NewValidation("Email is required.")
	}
	if req.Password == "" {
		return nil, plterrors.NewValidation("Password is required.")
	}
	if len(req.MyPis) == 0 {
		return nil, plterrors.NewValidation("Pi registration required.")
	}
	for _, pi := range req.MyPis {
		if pi.Nickname == "" {
			return nil, plterrors.NewValidation("Pi nickname required.")
		}
	}

	role := req.Role
	if role == "" {
		role = pltmodels.RoleUser
	}
	if !s.rbacService.IsValidRole(role) {
		return nil, plterrors.NewValidation("Invalid role.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &pltmodels.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		MyPis:        req.MyPis,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return created.Public(), nil
}

// Authenticate verifies credentials by exact email match and bcrypt
// comparison. Both failure paths return the identical error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*pltmodels.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, plterrors.NewAuthentication(InvalidCredentialsMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, plterrors.NewAuthentication(InvalidCredentialsMessage)
	}

	return user.Public(), nil
}

// SetRole updates a user's role. Admin only.
func (s *AuthService) SetRole(ctx context.Context, actorRole, targetUserID, newRole string) (*pltmodels.User, error) {
	if err := s.authorizer.RequireAdmin(actorRole); err != nil {
		return nil, err
	}
	if !s.rbacService.IsValidRole(newRole) {
		return nil, plterrors.NewValidation("Invalid role.")
	}

	updated, err := s.userRepo.UpdateRole(ctx, targetUserID, newRole)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, plterrors.NewNotFound("User not found.")
	}

	return updated.Public(), nil
}

// Delete removes a user and returns the pre-deletion projection. Admin
// only. Any orphaned data sessions are left in place; the aggregation
// lookups simply stop resolving them.
func (s *AuthService) Delete(ctx context.Context, actorRole, targetUserID string) (*pltmodels.User, error) {
	if err := s.authorizer.RequireAdmin(actorRole); err != nil {
		return nil, err
	}

	deleted, err := s.userRepo.Delete(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, plterrors.NewNotFound("User not found.")
	}

	return deleted.Public(), nil
}

// IssueToken mints a session token for an authenticated user.
func (s *AuthService) IssueToken(user *pltmodels.User) (string, error) {
	return s.jwtService.IssueUserToken(user)
}
