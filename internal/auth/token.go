package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenLifetime is how long an issued access token stays valid.
const TokenLifetime = 8 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature,
// expiry, wrong algorithm, missing subject.
var ErrInvalidToken = errors.New("invalid or expired token")

// CreateAccessToken signs an HS256 JWT whose subject is the username.
func CreateAccessToken(username, secret string) (string, error) {
	claims := jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(TokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates a bearer token and returns its subject.
// Only HS256 is accepted; an alg switch in the header fails verification.
func VerifyAccessToken(tokenString, secret string) (string, error) {
	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
