// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"qbank/config"
	domainerrors "qbank/internal/domain/errors"
	"qbank/internal/domain/service"
	"qbank/internal/errors"
)

// DefaultTokenTTL is how long an identity token stays valid unless configured otherwise.
const DefaultTokenTTL = 10 * 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte           // Secret key for signing identity tokens.
	ttl    time.Duration    // Time-to-live for identity tokens.
	now    func() time.Time // Clock used for issuing and validating.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := DefaultTokenTTL
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return newJWTService([]byte(cfg.SecretKey.Access), ttl, time.Now), nil
}

func newJWTService(secret []byte, ttl time.Duration, now func() time.Time) *jwtService {
	return &jwtService{
		secret: secret,
		ttl:    ttl,
		now:    now,
	}
}

// Issue creates a signed token carrying userID that expires after the configured TTL.
func (s *jwtService) Issue(userID uuid.UUID) (string, error) {
	issuedAt := s.now()
	claims := service.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(issuedAt.Add(s.ttl))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return signed, nil
}

// Verify checks signature, signing method and expiry, then returns the embedded user id.
func (s *jwtService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Expiry is checked below: the library treats now == exp as expired.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	if claims.ExpiresAt == nil {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidToken, "token has no expiry")
	}
	if s.now().After(claims.ExpiresAt.Time) {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidToken, "token is expired")
	}

	if !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, errors.Wrap(domainerrors.ErrInvalidToken, "token carries no user id")
	}

	return claims.UserID, nil
}

// ceilSecond rounds t up to a whole second, the resolution of the exp claim,
// so a token is never rejected before its full lifetime has passed.
func ceilSecond(t time.Time) time.Time {
	truncated := t.Truncate(time.Second)
	if truncated.Equal(t) {
		return t
	}

	return truncated.Add(time.Second)
}
