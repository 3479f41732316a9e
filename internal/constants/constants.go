package constants

import "time"

// Context keys for values attached by the auth middleware
const (
	ContextKeyUserID  = "user_id"
	ContextKeyIsAdmin = "is_admin"
)

// Pagination limits
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Auth settings
const (
	MinPasswordLength    = 8
	SessionTokenTTL      = 24 * time.Hour
	VerificationTokenTTL = time.Hour
)
