package auth

import (
	"time"

	"farmer_registry/internal/utils"
)

// JWTIssuer signs HS256 tokens carrying the user id as subject
type JWTIssuer struct {
	secret string
	ttl    time.Duration
}

// NewJWTIssuer creates an issuer whose tokens live for ttl
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token for userID
func (j *JWTIssuer) Issue(userID string) (string, error) {
	return utils.GenerateJWT(userID, j.secret, j.ttl)
}

var _ TokenIssuer = (*JWTIssuer)(nil)
