package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    string
	ProfileID string
}

// AccessTokenClaims represents the typed JWT issued to clients. ProfileID is
// the tenant isolation key every request is scoped by.
type AccessTokenClaims struct {
	UserID    string `json:"user_id"`
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}
