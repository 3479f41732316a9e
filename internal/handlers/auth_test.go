package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/solunkeprithwiraj/todo-api/internal/database"
	"github.com/solunkeprithwiraj/todo-api/internal/dto"
	"github.com/solunkeprithwiraj/todo-api/internal/models"
	"github.com/solunkeprithwiraj/todo-api/internal/repository"
	"github.com/solunkeprithwiraj/todo-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// recordingMailer captures outbound verification emails instead of sending.
type recordingMailer struct {
	lastTo    string
	lastToken string
	sends     int
	failWith  error
}

func (m *recordingMailer) SendVerificationEmail(toEmail, token string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.lastTo = toEmail
	m.lastToken = token
	m.sends++
	return nil
}

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	mailer      *recordingMailer
	authService *services.AuthService
	userRepo    repository.UserRepository
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	database.SetDB(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := repository.NewUserRepository(db)
	mailer := &recordingMailer{}
	authService := services.NewAuthService(userRepo, mailer, testJWTSecret, logger)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/user/signup", handler.Signup)
	r.POST("/api/user/login", handler.Login)
	r.GET("/api/user/verify-email", handler.VerifyEmail)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		router:      r,
		mailer:      mailer,
		authService: authService,
		userRepo:    userRepo,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any, headers ...map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User dto.UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Alice", response.User.Name)
	require.Equal(t, "alice@example.com", response.User.Email)
	require.False(t, response.User.IsAdmin)

	// The stored password must be a hash, never the plaintext
	stored, err := env.userRepo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "supersecret", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecret")))
	require.False(t, stored.IsVerified)
	require.NotNil(t, stored.VerificationTokenHash)

	// One verification email was dispatched, carrying the plaintext token
	require.Equal(t, 1, env.mailer.sends)
	require.Equal(t, "alice@example.com", env.mailer.lastTo)
	require.NotEmpty(t, env.mailer.lastToken)
	require.NotEqual(t, *stored.VerificationTokenHash, env.mailer.lastToken)
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Pending (unverified, token still live) registration is a conflict
	w = postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice Again", "email": "ALICE@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// So is a verified account
	require.NoError(t, env.authService.VerifyEmail(env.mailer.lastToken))
	w = postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice Again", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Signup_EmailFailureStillSucceeds(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.mailer.failWith = io.ErrUnexpectedEOF

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "supersecret",
	})

	// Delivery failure is logged, not surfaced
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandler_Signup_InvalidBearerRejected(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "supersecret",
	}, map[string]string{"Authorization": "Bearer not-a-real-token"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_UnverifiedForbidden(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, env.router, "/api/user/login", map[string]string{
		"email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_VerifyThenLogin(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/user/verify-email?token="+env.mailer.lastToken, nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Email verified successfully")

	w = postJSON(t, env.router, "/api/user/login", map[string]string{
		"email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "alice@example.com", response.User.Email)
}

func TestAuthHandler_VerifyEmail_SingleUse(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token := env.mailer.lastToken

	req := httptest.NewRequest(http.MethodGet, "/api/user/verify-email?token="+token, nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The digest was cleared; the same token no longer matches anyone
	req = httptest.NewRequest(http.MethodGet, "/api/user/verify-email?token="+token, nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/user/login", map[string]string{
		"email": "ghost@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(t, env.router, "/api/user/signup", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, env.authService.VerifyEmail(env.mailer.lastToken))

	w = postJSON(t, env.router, "/api/user/login", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}
