package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/solunkeprithwiraj/todo-api/internal/errors"
)

// Decision is the outcome of one guard predicate.
type Decision struct {
	Allow  bool
	Status int
	Code   string
	Reason string
}

// Allow permits the request to continue to the next guard.
func Allow() Decision {
	return Decision{Allow: true}
}

// Deny stops the request with the given status and reason.
func Deny(status int, code, reason string) Decision {
	return Decision{Status: status, Code: code, Reason: reason}
}

// Guard is a composable access predicate evaluated against the request
// context. Guards may attach identity values for downstream handlers.
type Guard func(c *gin.Context) Decision

// Chain evaluates guards in order and aborts on the first denial.
func Chain(guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, guard := range guards {
			decision := guard(c)
			if !decision.Allow {
				apierrors.RespondWithError(c, decision.Status,
					apierrors.NewAPIError(decision.Code, decision.Reason))
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
