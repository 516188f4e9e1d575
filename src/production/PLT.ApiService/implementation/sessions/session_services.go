// Package sessions is the read side over a user's telemetry history. It
// answers queries by joining the caller's embedded pi list against the
// independently stored data-session collection.
package sessions

import (
	"context"

	jwt "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.ApiService/implementation/jwt"
	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	interfaces "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Repository/Interfaces"
)

// SessionService answers session-history queries and mints per-session
// tokens. Queries never fail for absence: an unknown user or a filter that
// matches nothing yields an empty result.
type SessionService struct {
	userRepo    interfaces.UserRepository
	sessionRepo interfaces.SessionRepository
	jwtService  *jwt.Service
}

// NewSessionService creates a new session service
func NewSessionService(
	userRepo interfaces.UserRepository,
	sessionRepo interfaces.SessionRepository,
	jwtService *jwt.Service,
) *SessionService {
	return &SessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
	}
}

// CreateRequest carries the fields of a new data session.
type CreateRequest struct {
	PiID        string   `json:"piNicknameId"`
	SensorTypes []string `json:"sensorType"`
	Location    string   `json:"piLocationInHouse"`
	City        string   `json:"city"`
	Notes       string   `json:"notes"`
}

// CreateResult bundles the persisted session with its long-lived token.
type CreateResult struct {
	Session *pltmodels.DataSession `json:"session"`
	Token   string                 `json:"dataSessionToken"`
}

// Create persists a data session for one of the caller's pis and mints its
// token. The pi must belong to the calling user.
func (s *SessionService) Create(ctx context.Context, caller *pltmodels.User, req CreateRequest) (*CreateResult, error) {
	if len(req.SensorTypes) == 0 {
		return nil, plterrors.NewValidation("At least one sensor type required.")
	}
	for _, sensorType := range req.SensorTypes {
		if !pltmodels.IsValidSensorType(sensorType) {
			return nil, plterrors.NewValidation("Unknown sensor type: " + sensorType)
		}
	}
	if req.Location == "" {
		return nil, plterrors.NewValidation("Pi location required.")
	}
	if req.City == "" {
		return nil, plterrors.NewValidation("City required.")
	}

	pi, ok := callerPiByID(caller, req.PiID)
	if !ok {
		return nil, plterrors.NewValidation("Pi is not registered to this user.")
	}

	session, err := s.sessionRepo.Create(ctx, &pltmodels.DataSession{
		PiID:        pi.ID,
		SensorTypes: req.SensorTypes,
		Location:    req.Location,
		City:        req.City,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.IssueDataSessionToken(session)
	if err != nil {
		return nil, err
	}

	return &CreateResult{Session: session, Token: token}, nil
}

// AllSessionsByUser returns one record per user with the ordered list of
// all its matched sessions. Pis without telemetry contribute nothing.
func (s *SessionService) AllSessionsByUser(ctx context.Context) ([]pltmodels.UserSessions, error) {
	return s.userRepo.AllSessionsByUser(ctx)
}

// SessionsByCity returns the user's sessions filtered by city. City lives
// on the session side, so the filter applies after the join.
func (s *SessionService) SessionsByCity(ctx context.Context, city, userID string) ([]pltmodels.DataSession, error) {
	return s.userRepo.SessionsByCity(ctx, city, userID)
}

// SessionsByLocation returns the user's sessions filtered by in-house
// location.
func (s *SessionService) SessionsByLocation(ctx context.Context, location, userID string) ([]pltmodels.DataSession, error) {
	return s.userRepo.SessionsByLocation(ctx, location, userID)
}

// SessionsByPiNickname returns the sessions of the user's pis with the
// given nickname. The nickname filter narrows the pi list before the join.
func (s *SessionService) SessionsByPiNickname(ctx context.Context, nickname, userID string) ([]pltmodels.DataSession, error) {
	return s.userRepo.SessionsByPiNickname(ctx, nickname, userID)
}

// SessionsByPi lists the stored sessions of a single pi, newest insertion
// last. The pi must belong to the caller unless the caller is an admin.
func (s *SessionService) SessionsByPi(ctx context.Context, caller *pltmodels.User, piID string) ([]pltmodels.DataSession, error) {
	if caller.Role != pltmodels.RoleAdmin {
		if _, ok := callerPiByID(caller, piID); !ok {
			return nil, plterrors.NewAuthorization("Admin role required.")
		}
	}

	return s.sessionRepo.ListByPi(ctx, piID)
}

// SessionToken loads a stored session and mints its long-lived token. Any
// session record can be converted; no additional state is kept. The
// session's pi must belong to the caller unless the caller is an admin.
func (s *SessionService) SessionToken(ctx context.Context, caller *pltmodels.User, sessionID string) (string, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", plterrors.NewNotFound("Data session not found.")
	}

	if caller.Role != pltmodels.RoleAdmin {
		if _, ok := callerPiByID(caller, session.PiID.Hex()); !ok {
			return "", plterrors.NewAuthorization("Admin role required.")
		}
	}

	return s.jwtService.IssueDataSessionToken(session)
}

func callerPiByID(caller *pltmodels.User, piID string) (*pltmodels.Pi, bool) {
	for i := range caller.MyPis {
		if caller.MyPis[i].ID.Hex() == piID {
			return &caller.MyPis[i], true
		}
	}
	return nil, false
}
