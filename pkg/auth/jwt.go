package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken validates an HS256 token and returns the caller's principal.
func ParseToken(tokenString, secret string) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !token.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("token missing subject")
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return Principal{}, err
	}

	return Principal{UserID: claims.Subject, Role: role}, nil
}

// NewToken issues an HS256 token for the given principal.
func NewToken(p Principal, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: p.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
