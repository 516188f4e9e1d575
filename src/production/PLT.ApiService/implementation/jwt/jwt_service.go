package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	plterrors "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Errors"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
	api_models "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models/api"
)

// Service provides JWT operations
type Service struct {
	config api_models.Config
}

// NewService creates a new JWT service
func NewService(config api_models.Config) *Service {
	return &Service{
		config: config,
	}
}

// IssueUserToken signs the user's externally safe projection into an
// opaque token with a fixed 24h-class expiry. The password hash is never
// part of the claims.
func (s *Service) IssueUserToken(user *pltmodels.User) (string, error) {
	now := time.Now()

	claims := api_models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.UserTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{api_models.AudienceUser},
			ID:        uuid.New().String(),
		},
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		Role:     user.Role,
		MyPis:    user.MyPis,
		Revision: user.Revision,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// DecodeUserToken verifies signature, expiry, and namespace, then
// reconstructs an in-memory user from the embedded claims. This is a
// deliberate stale-until-reissue contract: identity, role, and pi list are
// as of token issuance, not live store state.
func (s *Service) DecodeUserToken(tokenString string) (*pltmodels.User, error) {
	claims := &api_models.UserClaims{}
	if err := s.parse(tokenString, claims, api_models.AudienceUser); err != nil {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, plterrors.NewInvalidToken("invalid or expired token")
	}

	return &pltmodels.User{
		ID:       userID,
		Email:    claims.Email,
		Role:     claims.Role,
		MyPis:    claims.MyPis,
		Revision: claims.Revision,
	}, nil
}

// IssueDataSessionToken signs the full data-session projection with a
// year-class expiry so a pi can stream against one token for the whole
// collection run.
func (s *Service) IssueDataSessionToken(session *pltmodels.DataSession) (string, error) {
	now := time.Now()

	claims := api_models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.SessionTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{api_models.AudienceDataSession},
			ID:        uuid.New().String(),
		},
		SessionID:   session.ID.Hex(),
		PiID:        session.PiID.Hex(),
		SensorTypes: session.SensorTypes,
		Location:    session.Location,
		City:        session.City,
		Notes:       session.Notes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// DecodeDataSessionToken verifies a data-session token and reconstructs
// the session record from its claims.
func (s *Service) DecodeDataSessionToken(tokenString string) (*pltmodels.DataSession, error) {
	claims := &api_models.SessionClaims{}
	if err := s.parse(tokenString, claims, api_models.AudienceDataSession); err != nil {
		return nil, err
	}

	sessionID, err := primitive.ObjectIDFromHex(claims.SessionID)
	if err != nil {
		return nil, plterrors.NewInvalidToken("invalid or expired token")
	}
	piID, err := primitive.ObjectIDFromHex(claims.PiID)
	if err != nil {
		return nil, plterrors.NewInvalidToken("invalid or expired token")
	}

	return &pltmodels.DataSession{
		ID:          sessionID,
		PiID:        piID,
		SensorTypes: claims.SensorTypes,
		Location:    claims.Location,
		City:        claims.City,
		Notes:       claims.Notes,
	}, nil
}

func (s *Service) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithAudience(audience))

	if err != nil || !token.Valid {
		return plterrors.NewInvalidToken("invalid or expired token")
	}

	return nil
}
