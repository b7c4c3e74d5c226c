package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"costbook/internal/auth"
	apperrors "costbook/internal/errors"
	"costbook/internal/services"
)

// Context keys set by RequireAuth.
const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
)

// RequireAuth verifies the bearer token and resolves the calling user.
// The token carries only the subject username; the user is looked up on
// every request so a token for a deleted user is rejected.
func RequireAuth(tokens *auth.TokenService, users services.UserServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		subject, err := tokens.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := users.GetUserByUsername(subject)
		if err != nil {
			abortUnauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err *apperrors.AppError) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
