package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/profilehub/user-service/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for admin operations
type AdminService interface {
	// Method ListUsers returns all non-admin users, passwords excluded.
	ListUsers(ctx context.Context) ([]models.User, error)
	// Method DeleteUser deletes a user by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned.
	DeleteUser(ctx context.Context, userID int) error
}

// AdminHandler handles admin-related HTTP requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes. The caller is expected
// to wrap this group with the authentication and admin-role middleware.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/dashboard", h.Dashboard)
	r.Delete("/admin/deleteUser/{id}", h.DeleteUser)
}

// Dashboard handles GET /admin/dashboard
// @Summary List non-admin users
// @Description Fetch all users with role "user", passwords excluded
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "List of users"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.Logger.Error("failed to fetch users", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "server error while fetching user details")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message":    "all user details fetched successfully",
		"totalUsers": len(users),
		"users":      users,
	})
}

// DeleteUser handles DELETE /admin/deleteUser/{id}
// @Summary Delete a user
// @Description Delete a user by ID
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User successfully deleted"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /admin/deleteUser/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			h.RespondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.Logger.Error("failed to delete user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "server error while deleting user")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "user successfully deleted"})
}
