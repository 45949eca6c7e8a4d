package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/profilehub/user-service/internal/models"
	"github.com/profilehub/user-service/internal/services"
	"go.uber.org/zap"
)

const (
	maxMultipartMemory = 20 << 20       // 20MB
	maxCVFileSize      = 5 * 1024 * 1024 // 5MB per CV file
	maxCVFiles         = 2
)

// UserService is the interface that wraps methods for profile business logic.
type UserService interface {
	// Method Edit applies a partial profile update, with an optional new
	// profile picture. Email and role are not part of the request type and
	// cannot change through this path.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned.
	Edit(ctx context.Context, userID int, req *models.EditUserRequest, pic *services.Upload, baseURL string) (*models.User, error)
	// Method UploadCVs stores the uploaded CV files and replaces the user's
	// stored list of references. Stored files are cleaned up on failure.
	UploadCVs(ctx context.Context, userID int, uploads []services.Upload, baseURL string) (*models.User, error)
	// Method UploadCover stores a new cover photo, replacing the previous
	// one. The stored file is cleaned up on failure.
	UploadCover(ctx context.Context, userID int, upload *services.Upload, baseURL string) (*models.User, error)
}

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all profile routes behind the authentication middleware
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Put("/user/edit/{id}", h.Edit)
		r.Put("/user/uploadCV/{id}", h.UploadCVs)
		r.Put("/user/uploadCover/{id}", h.UploadCover)
	})
}

// Edit handles PUT /user/edit/{id}
// @Summary Edit user profile
// @Description Partially update a user's profile. Email and role fields are ignored. Supports an optional profile picture upload.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "User ID"
// @Param name formData string false "Display name"
// @Param password formData string false "New password"
// @Param address formData string false "Address as JSON object"
// @Param profile_pic formData file false "Profile picture (optional)"
// @Success 200 {object} map[string]any "Updated user, password omitted"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /user/edit/{id} [put]
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	// Email and role are not read from the form: they cannot be updated
	// through the edit path.
	req := &models.EditUserRequest{
		Name:     r.FormValue("name"),
		Password: r.FormValue("password"),
	}

	if addressStr := r.FormValue("address"); addressStr != "" {
		address := &models.Address{}
		if err := json.Unmarshal([]byte(addressStr), address); err != nil {
			h.RespondError(w, http.StatusBadRequest, "invalid address format")
			return
		}
		req.Address = address
	}

	// An explicitly empty profile_pic value clears the stored reference
	if values, ok := r.MultipartForm.Value["profile_pic"]; ok && len(values) > 0 && values[0] == "" {
		empty := ""
		req.ProfilePic = &empty
	}

	var pic *services.Upload
	file, fileHeader, err := r.FormFile("profile_pic")
	if err == nil && fileHeader.Size > 0 {
		defer file.Close()
		pic = &services.Upload{File: file, Filename: fileHeader.Filename}
	} else if err != nil && err != http.ErrMissingFile {
		h.Logger.Error("failed to get profile picture from form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to process profile picture")
		return
	}

	user, err := h.userService.Edit(r.Context(), userID, req, pic, requestBaseURL(r))
	if err != nil {
		h.respondUserError(w, err, "failed to update user")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "user updated successfully",
		"user":    user,
	})
}

// UploadCVs handles PUT /user/uploadCV/{id}
// @Summary Upload CV files
// @Description Upload up to 2 PDF CV files (5MB each). Replaces the stored list of CV references.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "User ID"
// @Param pdf formData file true "PDF files (up to 2)"
// @Success 200 {object} map[string]any "CV uploaded successfully"
// @Failure 400 {object} map[string]string "Invalid upload"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /user/uploadCV/{id} [put]
func (h *UserHandler) UploadCVs(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	fileHeaders := r.MultipartForm.File["pdf"]
	if len(fileHeaders) == 0 {
		h.RespondError(w, http.StatusBadRequest, "no CV files uploaded")
		return
	}
	if len(fileHeaders) > maxCVFiles {
		h.RespondError(w, http.StatusBadRequest, fmt.Sprintf("at most %d CV files are allowed", maxCVFiles))
		return
	}

	uploads := make([]services.Upload, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		if fileHeader.Size > maxCVFileSize {
			h.RespondError(w, http.StatusBadRequest, "CV file exceeds the 5MB limit")
			return
		}
		if !isPDFContentType(fileHeader.Header.Get("Content-Type")) {
			h.RespondError(w, http.StatusBadRequest, "only PDF files are allowed")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			h.Logger.Error("failed to open uploaded CV", zap.Error(err))
			h.RespondError(w, http.StatusBadRequest, "failed to process CV file")
			return
		}
		defer file.Close()

		uploads = append(uploads, services.Upload{File: file, Filename: fileHeader.Filename})
	}

	user, err := h.userService.UploadCVs(r.Context(), userID, uploads, requestBaseURL(r))
	if err != nil {
		h.respondUserError(w, err, "failed to upload CV files")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "CV uploaded successfully",
		"pdfUrl":  user.CVs,
		"user":    user,
	})
}

// UploadCover handles PUT /user/uploadCover/{id}
// @Summary Upload cover photo
// @Description Upload a cover photo, replacing the previous one if present.
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "User ID"
// @Param coverPhoto formData file true "Cover photo"
// @Success 200 {object} map[string]any "Cover photo uploaded successfully"
// @Failure 400 {object} map[string]string "Invalid upload"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Security ApiKeyAuth
// @Router /user/uploadCover/{id} [put]
func (h *UserHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Error("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	file, fileHeader, err := r.FormFile("coverPhoto")
	if err != nil || fileHeader.Size == 0 {
		h.RespondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	upload := &services.Upload{File: file, Filename: fileHeader.Filename}
	user, err := h.userService.UploadCover(r.Context(), userID, upload, requestBaseURL(r))
	if err != nil {
		h.respondUserError(w, err, "failed to upload cover photo")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message":    "cover photo uploaded successfully",
		"coverPhoto": user.CoverPhoto,
		"user":       user,
	})
}

// respondUserError maps service errors to response statuses
func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, logMessage string) {
	if verrs, ok := models.AsValidationError(err); ok {
		h.RespondValidationError(w, verrs)
		return
	}
	if errors.Is(err, models.ErrUserNotFound) {
		h.RespondError(w, http.StatusNotFound, "user not found")
		return
	}
	h.Logger.Error(logMessage, zap.Error(err))
	h.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// isPDFContentType reports whether the uploaded file's declared content type
// is acceptable for a CV
func isPDFContentType(contentType string) bool {
	return contentType == "application/pdf" || contentType == "application/octet-stream"
}

// requestBaseURL reconstructs the external base URL for building file links
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
