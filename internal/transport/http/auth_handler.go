package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Anand1513/wash-while-you-shop/internal/middleware"
	sessionapp "github.com/Anand1513/wash-while-you-shop/internal/session/app"
	sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"
)

// SessionService is the session surface the auth handler drives.
type SessionService interface {
	Login(ctx context.Context, email, password string) (bool, error)
	Register(ctx context.Context, displayName, email, phoneNumber, password string) (bool, error)
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, updates sessionapp.UserUpdate) error
	CurrentUser() *sessiondomain.UserAccount
	InFlight() bool
}

// JWTConfig carries token-issuing settings for the facade.
type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// AuthHandler exposes login, registration, logout, and profile routes.
type AuthHandler struct {
	session  SessionService
	jwtCfg   JWTConfig
	logger   *slog.Logger
	validate *validator.Validate
}

func NewAuthHandler(session SessionService, jwtCfg JWTConfig, logger *slog.Logger, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		session:  session,
		jwtCfg:   jwtCfg,
		logger:   logger.With("handler", "auth"),
		validate: validate,
	}
}

// RegisterRoutes mounts the public authentication routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
}

// RegisterProtectedRoutes mounts routes that require a live session.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
	r.Patch("/me", h.handleUpdateProfile)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			jsonError(w, "Request body is empty", http.StatusBadRequest)
			return
		}
		jsonError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		jsonError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, sessionapp.ErrOperationInFlight) {
			jsonError(w, "Another sign-in attempt is already in progress", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(r.Context(), "Login failed with internal error", "error", err)
		jsonError(w, "Login failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	h.respondWithSession(w, r, http.StatusOK)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			jsonError(w, "Request body is empty", http.StatusBadRequest)
			return
		}
		jsonError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		jsonError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.session.Register(r.Context(), req.DisplayName, req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		if errors.Is(err, sessionapp.ErrOperationInFlight) {
			jsonError(w, "Another sign-in attempt is already in progress", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(r.Context(), "Registration failed with internal error", "error", err)
		jsonError(w, "Registration failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "Registration failed", http.StatusUnprocessableEntity)
		return
	}

	h.respondWithSession(w, r, http.StatusCreated)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Logout failed", "error", err)
		jsonError(w, "Logout failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user := h.session.CurrentUser()
	if user == nil {
		jsonError(w, "No active session", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, profileFromUser(user))
}

func (h *AuthHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	err := h.session.UpdateUser(r.Context(), sessionapp.UserUpdate{
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, sessionapp.ErrNoActiveSession) {
			jsonError(w, "No active session", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(r.Context(), "Profile update failed", "error", err)
		jsonError(w, "Profile update failed", http.StatusInternalServerError)
		return
	}
	// The session can be torn down between the update and this read.
	user := h.session.CurrentUser()
	if user == nil {
		jsonError(w, "No active session", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, profileFromUser(user))
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int) {
	user := h.session.CurrentUser()
	if user == nil {
		h.logger.ErrorContext(r.Context(), "Session empty right after successful authentication")
		jsonError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	token, err := h.issueToken(user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign session token", "error", err, "user_id", user.ID)
		jsonError(w, "Token generation error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, LoginResponse{Token: token, User: profileFromUser(user)})
}

func (h *AuthHandler) issueToken(user *sessiondomain.UserAccount) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"unm": user.DisplayName,
		"adm": user.IsAdministrator,
		"exp": now.Add(time.Hour * time.Duration(h.jwtCfg.ExpiryHours)).Unix(),
		"iat": now.Unix(),
		"iss": "autowashd",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtCfg.Secret))
}

// ensure the middleware contract stays satisfied by the session service
var _ middleware.SessionReader = (SessionService)(nil)
