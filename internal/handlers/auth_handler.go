package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eventlane/auth-service/internal/models"
	"github.com/eventlane/auth-service/libs/auth/middleware"
	"github.com/eventlane/auth-service/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register performs credential validation and account creation and returns a session token.
	//
	// "req" parameter contains email, password, and optional role (USER or ORGANIZER).
	//
	// If the email is taken, the role is invalid, or some other error occurs, the error
	// will be returned together with an empty token.
	Register(ctx context.Context, req *models.RegisterRequest) (string, error)
	// Method Login performs credential verification and returns a session token.
	//
	// "req" parameter contains email and password.
	//
	// If the credentials are invalid, or some other error occurs, the error will be
	// returned together with an empty token.
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	handlers.BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, requireUser func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(requireUser).Get("/me", h.Me)
	})
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Description Register a new account with email, password, and optional role (USER or ORGANIZER). Returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.TokenResponse "Account registered successfully"
// @Failure 400 {object} map[string]string "Invalid request body, invalid role, or email already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateRequest(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.Logger.Error("failed to register account", zap.Error(err))
		status, message := statusFromError(err)
		h.RespondError(w, status, message)
		return
	}

	h.RespondJSON(w, http.StatusCreated, models.TokenResponse{Token: token})
}

// Login handles POST /auth/login
// @Summary Login
// @Description Authenticate with email and password. Returns a session token valid for 7 days.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.TokenResponse "Login successful"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateRequest(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed to login", zap.Error(err))
		status, message := statusFromError(err)
		h.RespondError(w, status, message)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Me handles GET /auth/me
// @Summary Current identity
// @Description Returns the freshly hydrated identity of the calling account.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string "Current identity"
// @Failure 401 {object} map[string]string "Missing, invalid, or expired token"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		// RequireUser always sets the identity; this is a wiring error
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"id":    identity.ID,
		"email": identity.Email,
		"role":  identity.Role,
	})
}
