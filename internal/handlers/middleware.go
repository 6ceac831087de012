package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rainbow-properties/internal/auth"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity on the context for the handlers downstream.
func RequireAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "Unauthorized - No token provided"})
			return
		}

		user, err := verifier.GetUser(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "Unauthorized - Invalid token"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString("userID")
}
