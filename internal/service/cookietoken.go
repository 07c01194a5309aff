package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tolonipescarias/portal/internal/domain"
)

// CookieTokenMaker signs and verifies the portal session cookie. The
// cookie carries only the portal session ID; identity and upstream
// credentials stay server-side.
type CookieTokenMaker struct {
	secret []byte
	ttl    time.Duration
}

// NewCookieTokenMaker creates a maker signing with HMAC-SHA256.
func NewCookieTokenMaker(secret string, ttl time.Duration) *CookieTokenMaker {
	return &CookieTokenMaker{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for the given portal session ID.
func (c *CookieTokenMaker) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses a token and returns the portal session ID from the sub
// claim. Any parse or signature failure maps to domain.ErrUnauthorized.
func (c *CookieTokenMaker) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}

// TTL returns the configured cookie lifetime.
func (c *CookieTokenMaker) TTL() time.Duration {
	return c.ttl
}
