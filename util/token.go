package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// Session tokens are minted by the external auth collaborator with the shared
// JWTSECRET and carried in the session-token header. This file is the local
// side of that contract: issue (used by tests and provisioning tooling) and
// parse (used by the session middleware).

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims identifies the account behind a session token.
type SessionClaims struct {
	UserID uint
	Role   string
}

// IssueSessionToken signs a session token for the given user and role.
func IssueSessionToken(userID uint, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", userID),
		"uid":  float64(userID),
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTSecretByte())
}

// ParseSessionToken validates the signature and expiry of a session token
// and returns its claims.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return GetJWTSecretByte(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSessionToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSessionToken
	}
	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return nil, ErrInvalidSessionToken
	}
	role, _ := claims["role"].(string)
	return &SessionClaims{UserID: uint(uid), Role: role}, nil
}
