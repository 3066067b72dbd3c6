package auth

import (
	"context"
	"errors"
	"fmt"
	"subscribe-server/internal/observability"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrParseJWTToken   = errors.New("failed to parse token")
	ErrExpiredToken    = errors.New("token expired")
	ErrInvalidJWTToken = errors.New("invalid token")
)

// Verifier validates bearer tokens issued by the authentication subsystem.
// This system never issues tokens, it only observes the outcome.
type Verifier struct {
	jwtSecret string
	logger    *observability.Logger
}

func NewVerifier(jwtSecret string, logger *observability.Logger) *Verifier {
	return &Verifier{jwtSecret: jwtSecret, logger: logger}
}

// ValidateToken parses and verifies an HS256 token and returns its subject.
func (v *Verifier) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Check the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			v.logger.Error(ctx, "token expired", err)
			return "", ErrExpiredToken
		}

		v.logger.Error(ctx, "failed to parse token", err)
		return "", ErrParseJWTToken
	}
	if !t.Valid {
		return "", ErrInvalidJWTToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		v.logger.Error(ctx, "failed to extract subject claim", err)
		return "", ErrParseJWTToken
	}

	return subject, nil
}
