package interfaces

import (
	"context"

	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

type SessionRepository interface {
	// Create data session
	Create(ctx context.Context, session *pltmodels.DataSession) (*pltmodels.DataSession, error)

	// Read data sessions
	GetByID(ctx context.Context, sessionID string) (*pltmodels.DataSession, error)
	ListByPi(ctx context.Context, piID string) ([]pltmodels.DataSession, error)
}
