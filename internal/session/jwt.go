package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reads the exp claim of the held token without verifying the
// signature. It exists for status display only; expiry decisions stay with
// the server (see RefreshSession). The second result is false when no token
// is held or the token carries no readable exp claim.
func (c *Container) ExpiresAt() (time.Time, bool) {
	token := c.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
