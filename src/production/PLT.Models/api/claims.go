package api_models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	pltmodels "gitlab.com/plantonomous1/plt.telemetry_server/src/production/PLT.Models"
)

// Token audiences. User tokens and data-session tokens live in separate
// namespaces and are never interchangeable.
const (
	AudienceUser        = "user"
	AudienceDataSession = "data-session"
)

// Config holds JWT configuration
type Config struct {
	SecretKey            string
	Issuer               string
	UserTokenDuration    time.Duration
	SessionTokenDuration time.Duration
}

// UserClaims embed the full externally safe user projection. Decoding a
// token reconstructs the user from these claims without a store read, so a
// role or pi-list change only becomes visible in the next issued token.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID   string         `json:"_id"`
	Email    string         `json:"email"`
	Role     string         `json:"role"`
	MyPis    []pltmodels.Pi `json:"myPis"`
	Revision int32          `json:"__v"`
}

// SessionClaims embed the full data-session projection, letting a pi hold
// a single long-lived token for the whole data-collection run.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID   string   `json:"_id"`
	PiID        string   `json:"piNicknameId"`
	SensorTypes []string `json:"sensorType"`
	Location    string   `json:"piLocationInHouse"`
	City        string   `json:"city"`
	Notes       string   `json:"notes,omitempty"`
}
