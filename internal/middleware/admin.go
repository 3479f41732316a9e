package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/solunkeprithwiraj/todo-api/internal/errors"
)

// RequireAdmin denies callers whose resolved identity lacks the admin flag.
// It only makes sense chained after Authenticate.
func RequireAdmin() Guard {
	return func(c *gin.Context) Decision {
		if !IsAdmin(c) {
			return Deny(http.StatusForbidden, apierrors.ErrCodeForbidden, "Admin access required")
		}
		return Allow()
	}
}
