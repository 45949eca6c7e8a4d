package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/profilehub/user-service/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register performs user credentials validation and creation.
	//
	// "req" parameter contains name, email, password and an optional role.
	//
	// If the payload is invalid a models.ValidationError is returned; if the
	// email is taken models.ErrEmailExists is returned. On success the
	// created user is returned.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Method Login performs user credentials validation and issues a token.
	//
	// "req" parameter contains email and password.
	//
	// If no user with such email exists models.ErrUserNotFound is returned;
	// if the password does not match models.ErrInvalidCredentials is
	// returned. On success the user and the signed token are returned.
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/user/register", h.Register)
	r.Post("/user/login", h.Login)
}

// Register handles POST /user/register
// @Summary Register a new user
// @Description Register a new user with name, email, password and an optional role
// @Tags user
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} map[string]string "User registered successfully"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if verrs, ok := models.AsValidationError(err); ok {
			h.RespondValidationError(w, verrs)
			return
		}
		if errors.Is(err, models.ErrEmailExists) {
			h.RespondError(w, http.StatusConflict, "email already exists")
			return
		}
		h.Logger.Error("failed to register user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{"message": "user registered successfully"})
}

// Login handles POST /user/login
// @Summary Login user
// @Description Authenticate user with email and password. Returns the user and a signed token.
// @Tags user
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} map[string]any "User and token"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 401 {object} map[string]string "Incorrect password"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, signed, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if verrs, ok := models.AsValidationError(err); ok {
			h.RespondValidationError(w, verrs)
			return
		}
		if errors.Is(err, models.ErrUserNotFound) {
			h.RespondError(w, http.StatusNotFound, "user not found")
			return
		}
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.RespondError(w, http.StatusUnauthorized, "incorrect password")
			return
		}
		h.Logger.Error("failed to login user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": signed,
	})
}
