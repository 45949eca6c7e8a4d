package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/profilehub/user-service/internal/models"
	"github.com/profilehub/user-service/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLength     = 20
	maxEmailLength    = 60
	minPasswordLength = 6
)

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserRepository is the interface that wraps methods for User table data access
// needed by the auth service
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// If a user with the same email already exists, models.ErrEmailExists is
	// returned. Any other error means the insert failed.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a full user record by email.
	//
	// If no user with such email exists, models.ErrUserNotFound is returned
	// together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together
	// with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// authService implements registration and login
type authService struct {
	userRepo   UserRepository
	tokenCodec *token.Codec
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokenCodec *token.Codec, logger *zap.Logger) *authService {
	return &authService{
		userRepo:   userRepo,
		tokenCodec: tokenCodec,
		logger:     logger,
	}
}

// Register creates a new user account. The email is lower-cased and trimmed
// before the uniqueness check, the password is stored only as a bcrypt hash,
// and the role defaults to "user" unless the payload names a valid role.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if err := validateRegistration(name, email, req.Password, req.Role); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, models.ErrEmailExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and issues a signed token carrying the user's
// current email and role.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	verrs := models.ValidationError{}
	if !emailRegex.MatchString(email) {
		verrs["email"] = "invalid email"
	}
	if req.Password == "" {
		verrs["password"] = "password is required"
	}
	if len(verrs) > 0 {
		return nil, "", verrs
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	signed, err := s.tokenCodec.Sign(user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Int("userId", user.ID), zap.Error(err))
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return user, signed, nil
}

// validateRegistration collects per-field validation errors for a
// registration payload
func validateRegistration(name, email, password string, role models.Role) error {
	verrs := models.ValidationError{}

	if name == "" {
		verrs["name"] = "name is required"
	} else if len(name) > maxNameLength {
		verrs["name"] = fmt.Sprintf("name must be at most %d characters", maxNameLength)
	}

	if !emailRegex.MatchString(email) {
		verrs["email"] = "invalid email"
	} else if len(email) > maxEmailLength {
		verrs["email"] = fmt.Sprintf("email must be at most %d characters", maxEmailLength)
	}

	if len(password) < minPasswordLength {
		verrs["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}

	if role != "" && !role.Valid() {
		verrs["role"] = "role must be one of: user, admin"
	}

	if len(verrs) > 0 {
		return verrs
	}
	return nil
}
