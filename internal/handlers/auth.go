package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solunkeprithwiraj/todo-api/internal/constants"
	"github.com/solunkeprithwiraj/todo-api/internal/dto"
	apierrors "github.com/solunkeprithwiraj/todo-api/internal/errors"
	"github.com/solunkeprithwiraj/todo-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new user and triggers the verification email.
func (h *AuthHandler) Signup(c *gin.Context) {
	// A bearer token on a signup request is not required, but if one is
	// supplied it must resolve to an existing user.
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierrors.Unauthorized(c, "invalid authorization header")
			return
		}
		if err := h.authService.ValidateSession(parts[1]); err != nil {
			apierrors.Unauthorized(c, "Invalid token")
			return
		}
	}

	type SignupRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, resent, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if resent {
		c.JSON(http.StatusOK, gin.H{
			"message": "Verification email resent, check your inbox",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully, check email for verification",
		"user":    dto.ToUserDTO(*user),
	})
}

// VerifyEmail consumes a verification token from the query string. Responses
// are plain text; the link lands in a browser, not an API client.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.authService.VerifyEmail(token); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			c.String(http.StatusBadRequest, "Verification token expired. Please sign up again.")
		case errors.Is(err, services.ErrTokenInvalid):
			c.String(http.StatusNotFound, "Invalid or expired token.")
		default:
			c.String(http.StatusInternalServerError, "Server error.")
		}
		return
	}

	c.String(http.StatusOK, "Email verified successfully. You can now log in.")
}

// Login authenticates a verified user and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "User authenticated successfully",
		User:    dto.ToUserDTO(*user),
		Token:   token,
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrWrongPassword):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
