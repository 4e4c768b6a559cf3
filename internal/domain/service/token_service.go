package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of an identity token. The user id is the only custom claim.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for issuing and verifying identity tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue signs a token for userID that expires after the configured TTL.
	Issue(userID uuid.UUID) (string, error)

	// Verify checks signature and expiry and returns the embedded user id.
	// Every failure is reported as domain ErrInvalidToken.
	Verify(token string) (uuid.UUID, error)
}
