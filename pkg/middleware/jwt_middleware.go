package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"tripplanner/pkg/utils"
)

const UserIDKey = "user_id"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func JWTAuthMiddleware(verifier *utils.TokenVerifier) gin.HandlerFunc {

	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Access token required")
			c.Abort()
			return
		}

		userID, err := verifier.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID.String())
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is present
// and lets anonymous requests through otherwise.
func OptionalAuthMiddleware(verifier *utils.TokenVerifier) gin.HandlerFunc {

	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if userID, err := verifier.ValidateToken(tokenString); err == nil {
				c.Set(UserIDKey, userID.String())
			}
		}
		c.Next()
	}
}
