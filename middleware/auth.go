package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"civicreport/services"

	"github.com/gin-gonic/gin"
)

// EmailKey is the context key holding the verified caller email.
const EmailKey = "email"

type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Authenticate accepts only "Authorization: Bearer <token>" and stores the
// verified email under EmailKey.
func Authenticate(verifier services.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" || strings.ContainsAny(token, " \t") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"message": "token verification timed out"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		c.Set(EmailKey, identity.Email)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate. A caller with no user record is
// not an admin.
func RequireAdmin(users AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		ok, err := users.IsAdmin(c.Request.Context(), email)
		if err != nil {
			slog.Error("admin check failed", "email", email, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		c.Next()
	}
}
