package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenMinter issues the session token carried as the bearer
// credential on authenticated requests.
type TokenMinter interface {
	Mint(userID, username string, issuedAt time.Time) (string, error)
}

// JWTMinter signs HS256 tokens whose expiry matches the session
// lifetime, so a leaked token dies with the session that minted it.
type JWTMinter struct {
	Secret   []byte
	Lifetime time.Duration
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (m JWTMinter) Mint(userID, username string, issuedAt time.Time) (string, error) {
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "cinehub",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.Lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}
