package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID          string   `json:"uid"`
	Role            string   `json:"role"`
	AdditionalRoles []string `json:"additionalRoles,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Roles returns the primary role followed by any additional roles.
func (c *Claims) Roles() []string {
	out := make([]string, 0, 1+len(c.AdditionalRoles))
	if c.Role != "" {
		out = append(out, c.Role)
	}
	return append(out, c.AdditionalRoles...)
}

func SignJWT(secret string, c Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func ParseJWT(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
