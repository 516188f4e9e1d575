package auth

import (
	"context"

	rbac "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/rbac"
	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	interfaces "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Repository/Interfaces"
)

// UserService provides user management operations
type UserService struct {
	userRepo   interfaces.UserRepository
	authorizer *rbac.Authorizer
}

// NewUserService creates a new user service
func NewUserService(userRepo interfaces.UserRepository, rbacService *rbac.Service) *UserService {
	return &UserService{
		userRepo:   userRepo,
		authorizer: rbac.NewAuthorizer(rbacService),
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*pltmodels.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, plterrors.NewNotFound("User not found.")
	}
	return user.Public(), nil
}

// GetAllUsers retrieves all users
func (s *UserService) GetAllUsers(ctx context.Context) ([]*pltmodels.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*pltmodels.User, 0, len(users))
	for _, user := range users {
		out = append(out, user.Public())
	}
	return out, nil
}

// AddPi appends a new pi with a generated identifier to the end of the
// target user's pi list. Users may only grow their own list; admins may
// grow anyone's. Existing pis keep their identifiers and order.
func (s *UserService) AddPi(ctx context.Context, actorID, actorRole, targetUserID, nickname, description string) (*pltmodels.User, error) {
	if err := s.authorizer.RequireOwnerOrAdmin(actorID, actorRole, targetUserID); err != nil {
		return nil, err
	}
	if nickname == "" {
		return nil, plterrors.NewValidation("Pi nickname required.")
	}

	updated, err := s.userRepo.PushPi(ctx, targetUserID, pltmodels.Pi{
		Nickname:    nickname,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, plterrors.NewNotFound("User not found.")
	}

	return updated.Public(), nil
}
