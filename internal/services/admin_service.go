package services

import (
	"context"

	"github.com/profilehub/user-service/internal/models"
	"go.uber.org/zap"
)

// AdminRepository is the interface that wraps methods for User table data
// access needed by the admin service
type AdminRepository interface {
	// Method ListByRole retrieves all users with the given role, with
	// password hashes excluded.
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// Method Delete removes a user by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned.
	Delete(ctx context.Context, userID int) error
}

// adminService implements admin user management
type adminService struct {
	userRepo AdminRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers returns all non-admin users, passwords excluded
func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleUser)
}

// DeleteUser removes a user by ID. Deletions are logged since there is no
// audit trail beyond the request log.
func (s *adminService) DeleteUser(ctx context.Context, userID int) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted by admin", zap.Int("userId", userID))
	return nil
}
