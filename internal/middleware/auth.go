package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/solunkeprithwiraj/todo-api/internal/constants"
	apierrors "github.com/solunkeprithwiraj/todo-api/internal/errors"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
)

// Authenticate validates the bearer token on the request and resolves the
// caller through the user store, attaching {id, isAdmin} to the context.
// Admin status comes from the stored record, not the token, so revoking the
// flag takes effect on the next request.
func Authenticate(jwtSecret string, userRepo repository.UserRepository) Guard {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) Decision {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return Deny(http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return Deny(http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, "invalid authorization header")
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			return Deny(http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, "invalid or expired token")
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return Deny(http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, "invalid token subject")
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			return Deny(http.StatusUnauthorized, apierrors.ErrCodeUnauthorized, "user not found")
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyIsAdmin, user.IsAdmin)
		return Allow()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	userID, ok := value.(uint64)
	if !ok {
		return 0, false
	}
	return userID, true
}

// IsAdmin reports whether the authenticated caller is an administrator
func IsAdmin(c *gin.Context) bool {
	value, exists := c.Get(constants.ContextKeyIsAdmin)
	if !exists {
		return false
	}

	isAdmin, ok := value.(bool)
	return ok && isAdmin
}
