package main

import (
	"strings"

	"storeapi/pkg/tokens"

	"github.com/gin-gonic/gin"
)

// Context keys set by authRequired for downstream handlers.
const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// authRequired extracts and verifies the bearer access token. Every failure
// mode (missing header, malformed, expired, bad signature) answers the same
// 401 so callers learn nothing about which check tripped.
func (s *server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(c, errUnauthorized)
			return
		}
		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "), s.cfg.AccessSecret)
		if err != nil {
			respondError(c, errUnauthorized)
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// requireRole runs after authRequired. It re-fetches the user so a role
// change at the store takes effect on the next request instead of riding
// out the token's lifetime.
func (s *server) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get(ctxUserID)
		if !ok {
			respondError(c, errUnauthorized)
			return
		}
		user, err := s.users.ByID(userID.(uint))
		if err != nil {
			respondError(c, errInternal)
			return
		}
		if user.Role != role {
			respondError(c, errForbidden)
			return
		}
		c.Next()
	}
}
