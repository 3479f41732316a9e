package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/solunkeprithwiraj/todo-api/internal/constants"
	"github.com/solunkeprithwiraj/todo-api/internal/mail"
	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
	"github.com/solunkeprithwiraj/todo-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user does not exist")
	ErrNotVerified          = errors.New("please verify your email first")
	ErrWrongPassword        = errors.New("invalid password")
	ErrTokenInvalid         = errors.New("invalid or expired token")
	ErrTokenExpired         = errors.New("verification token expired")
	ErrSessionInvalid       = errors.New("invalid session token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, email verification and login.
type AuthService struct {
	userRepo  repository.UserRepository
	mailer    mail.Mailer
	jwtSecret []byte
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, mailer mail.Mailer, jwtSecret string, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unverified user and emails them a verification link.
// Re-registering an address whose previous verification token has expired
// rotates the token instead of creating a duplicate; the returned flag
// reports that resend case.
func (s *AuthService) Register(input RegisterInput) (*models.User, bool, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, false, ErrNameRequired
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, false, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, false, ErrPasswordTooShort
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return s.handleReRegistration(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, ErrFailedToHashPassword
	}

	token, digest, err := utils.GenerateVerificationToken()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expires := time.Now().Add(constants.VerificationTokenTTL)

	user := &models.User{
		Name:                     name,
		Email:                    email,
		PasswordHash:             string(hashedPassword),
		IsVerified:               false,
		VerificationTokenHash:    &digest,
		VerificationTokenExpires: &expires,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.dispatchVerificationEmail(email, token)

	return user, false, nil
}

// handleReRegistration decides what a duplicate signup means. A verified
// account is a hard conflict. An unverified one whose token is still live is
// told to check their inbox; an expired token gets rotated and resent.
func (s *AuthService) handleReRegistration(existing *models.User) (*models.User, bool, error) {
	if existing.IsVerified {
		return nil, false, ErrEmailTaken
	}
	if existing.VerificationTokenExpires != nil && time.Now().Before(*existing.VerificationTokenExpires) {
		return nil, false, ErrEmailTaken
	}

	token, digest, err := utils.GenerateVerificationToken()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate verification token: %w", err)
	}
	expires := time.Now().Add(constants.VerificationTokenTTL)

	existing.VerificationTokenHash = &digest
	existing.VerificationTokenExpires = &expires
	if err := s.userRepo.Update(existing); err != nil {
		return nil, false, fmt.Errorf("failed to rotate verification token: %w", err)
	}

	s.dispatchVerificationEmail(existing.Email, token)

	return existing, true, nil
}

// dispatchVerificationEmail sends the link. Delivery failure is logged and
// swallowed: registration has already been persisted and still succeeds.
func (s *AuthService) dispatchVerificationEmail(email, token string) {
	if err := s.mailer.SendVerificationEmail(email, token); err != nil {
		s.logger.Error("failed to send verification email",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
	}
}

// VerifyEmail marks the account behind the token as verified. The token is
// single-use: the stored digest is cleared on success, so a second attempt
// no longer matches any user.
func (s *AuthService) VerifyEmail(token string) error {
	if token == "" {
		return ErrTokenInvalid
	}

	user, err := s.userRepo.FindByVerificationTokenHash(utils.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}

	if user.VerificationTokenExpires != nil && time.Now().After(*user.VerificationTokenExpires) {
		return ErrTokenExpired
	}

	user.IsVerified = true
	user.VerificationTokenHash = nil
	user.VerificationTokenExpires = nil

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials against a verified account and issues a signed
// session token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrWrongPassword
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return user, token, nil
}

// ValidateSession parses a bearer token and confirms it belongs to an
// existing user. Used as an auxiliary check when a token accompanies a
// request that does not strictly require one.
func (s *AuthService) ValidateSession(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrSessionInvalid
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return ErrSessionInvalid
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		return ErrSessionInvalid
	}

	return nil
}

func (s *AuthService) issueToken(userID uint64) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(constants.SessionTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
