package interfaces

import (
	"context"

	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

type UserRepository interface {
	// Create user. Fails with a validation error when the email is taken.
	Create(ctx context.Context, user *pltmodels.User) (*pltmodels.User, error)

	// Read users
	GetByID(ctx context.Context, userID string) (*pltmodels.User, error)
	GetByEmail(ctx context.Context, email string) (*pltmodels.User, error)
	GetAll(ctx context.Context) ([]*pltmodels.User, error)

	// Single-document mutations. Each is one atomic findOneAndUpdate
	// returning the updated document. The revision counter is untouched.
	PushPi(ctx context.Context, userID string, pi pltmodels.Pi) (*pltmodels.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*pltmodels.User, error)

	// Delete removes the user and returns its pre-deletion document.
	Delete(ctx context.Context, userID string) (*pltmodels.User, error)

	// Session aggregations across the embedded pis and the independently
	// keyed session collection. A user ID that resolves to no user yields
	// an empty result, never an error.
	AllSessionsByUser(ctx context.Context) ([]pltmodels.UserSessions, error)
	SessionsByCity(ctx context.Context, city, userID string) ([]pltmodels.DataSession, error)
	SessionsByLocation(ctx context.Context, location, userID string) ([]pltmodels.DataSession, error)
	SessionsByPiNickname(ctx context.Context, nickname, userID string) ([]pltmodels.DataSession, error)

	// EnsureIndexes creates the unique email index.
	EnsureIndexes(ctx context.Context) error
}
