package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/tumblera/tumblera-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	Role  enums.ActorRole
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to clients. The seller
// role travels here and only here; nothing client-writable grants it.
type AccessTokenClaims struct {
	Email string          `json:"email"`
	Role  enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
