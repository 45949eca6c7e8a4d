package services

import (
	"context"
	"fmt"
	"io"

	"github.com/profilehub/user-service/internal/models"
	"github.com/profilehub/user-service/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Upload is a single uploaded file handed down from the HTTP layer
type Upload struct {
	File     io.Reader
	Filename string
}

// ProfileRepository is the interface that wraps methods for User table data
// access needed by the user service
type ProfileRepository interface {
	// Method GetByID retrieves a full user record by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned
	// together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method Update persists the mutable fields of a user record. Email and
	// role are never written by this method.
	Update(ctx context.Context, user *models.User) error
}

// userService implements profile editing and file uploads
type userService struct {
	userRepo ProfileRepository
	store    storage.Storage
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ProfileRepository, store storage.Storage, logger *zap.Logger) *userService {
	return &userService{
		userRepo: userRepo,
		store:    store,
		logger:   logger,
	}
}

// Edit applies a partial profile update. Email and role never reach this
// method: the handler strips them from the input. An optional new profile
// picture is stored on disk and referenced by URL; an explicit empty
// profile_pic clears the reference.
func (s *userService) Edit(ctx context.Context, userID int, req *models.EditUserRequest, pic *Upload, baseURL string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		if len(req.Name) > maxNameLength {
			return nil, models.ValidationError{"name": fmt.Sprintf("name must be at most %d characters", maxNameLength)}
		}
		user.Name = req.Name
	}

	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, models.ValidationError{"password": fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(passwordHash)
	}

	if req.Address != nil {
		user.Address = req.Address
	}

	var storedPic string
	if pic != nil {
		storedPic, err = s.storeFile(pic, storage.KindImage)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = fmt.Sprintf("%s/uploads/%s", baseURL, storedPic)
	} else if req.ProfilePic != nil && *req.ProfilePic == "" {
		user.ProfilePic = ""
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		// Clean up the freshly stored picture if the record update failed
		if storedPic != "" {
			s.removeFile(storedPic, storage.KindImage)
		}
		return nil, err
	}

	return user, nil
}

// UploadCVs stores the uploaded CV files and replaces the user's stored list
// of references. Stored files are removed again if the owning record cannot
// be updated.
func (s *userService) UploadCVs(ctx context.Context, userID int, uploads []Upload, baseURL string) (*models.User, error) {
	stored := make([]string, 0, len(uploads))
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		name, err := s.storeFile(&upload, storage.KindCV)
		if err != nil {
			s.removeFiles(stored, storage.KindCV)
			return nil, err
		}
		stored = append(stored, name)
		urls = append(urls, fmt.Sprintf("%s/files/%s", baseURL, name))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.removeFiles(stored, storage.KindCV)
		return nil, err
	}

	user.CVs = urls
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.removeFiles(stored, storage.KindCV)
		return nil, err
	}

	return user, nil
}

// UploadCover stores a new cover photo, deletes the previous one through its
// stored handle, and saves the new reference on the user record.
func (s *userService) UploadCover(ctx context.Context, userID int, upload *Upload, baseURL string) (*models.User, error) {
	name, err := s.storeFile(upload, storage.KindCover)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.removeFile(name, storage.KindCover)
		return nil, err
	}

	if user.CoverPhotoID != "" {
		s.removeFile(user.CoverPhotoID, storage.KindCover)
	}

	user.CoverPhoto = fmt.Sprintf("%s/uploads/covers/%s", baseURL, name)
	user.CoverPhotoID = name
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.removeFile(name, storage.KindCover)
		return nil, err
	}

	return user, nil
}

// storeFile writes an upload to storage under a fresh uuid-based name and
// returns the stored name
func (s *userService) storeFile(upload *Upload, kind string) (string, error) {
	name := storage.GenerateFileNameFrom(upload.Filename)

	writer, err := s.store.Create(name, kind)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(writer, upload.File); err != nil {
		writer.Close()
		s.removeFile(name, kind)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := writer.Close(); err != nil {
		s.removeFile(name, kind)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return name, nil
}

// removeFile deletes a stored file, logging instead of failing the request
func (s *userService) removeFile(name, kind string) {
	if err := s.store.Delete(name, kind); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("file", name),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func (s *userService) removeFiles(names []string, kind string) {
	for _, name := range names {
		s.removeFile(name, kind)
	}
}
