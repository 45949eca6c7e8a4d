package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/profilehub/user-service/internal/models"
	"go.uber.org/zap"
)

const mysqlErrDuplicateEntry = 1062

// userRepository implements data access for the users table
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return models.ErrEmailExists
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a full user record by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, profile_pic, cover_photo, cover_photo_id, pdfs, address, role, created_at, updated_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a full user record by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, profile_pic, cover_photo, cover_photo_id, pdfs, address, role, created_at, updated_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetIdentityByEmail retrieves only the id, email and role of a user.
// This is the authentication projection: the password hash is never loaded.
func (r *userRepository) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `
		SELECT id, email, role
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	identity := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Role,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get identity by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}

	return identity, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Update persists the mutable fields of a user record. Email and role are
// deliberately not part of the SET clause: they cannot change through the
// edit or upload paths.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	pdfsJSON, err := marshalNullable(user.CVs)
	if err != nil {
		return fmt.Errorf("failed to marshal pdfs: %w", err)
	}
	addressJSON, err := marshalNullable(user.Address)
	if err != nil {
		return fmt.Errorf("failed to marshal address: %w", err)
	}

	query := `
		UPDATE users
		SET name = ?, password_hash = ?, profile_pic = ?, cover_photo = ?, cover_photo_id = ?, pdfs = ?, address = ?
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		user.Name,
		user.PasswordHash,
		user.ProfilePic,
		user.CoverPhoto,
		user.CoverPhotoID,
		pdfsJSON,
		addressJSON,
		user.ID,
	)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("userId", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes a user by ID
func (r *userRepository) Delete(ctx context.Context, userID int) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("userId", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// ListByRole retrieves all users with the given role, passwords excluded
func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	query := `
		SELECT id, name, email, '', profile_pic, cover_photo, cover_photo_id, pdfs, address, role, created_at, updated_at
		FROM users
		WHERE role = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		r.logger.Error("failed to list users by role", zap.Error(err), zap.String("role", string(role)))
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		user.PasswordHash = ""
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanUser
type scanner interface {
	Scan(dest ...any) error
}

// scanUser scans a full user row, decoding the JSON columns
func (r *userRepository) scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var profilePic, coverPhoto, coverPhotoID, pdfsJSON, addressJSON sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&profilePic,
		&coverPhoto,
		&coverPhotoID,
		&pdfsJSON,
		&addressJSON,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ProfilePic = profilePic.String
	user.CoverPhoto = coverPhoto.String
	user.CoverPhotoID = coverPhotoID.String

	if pdfsJSON.Valid && pdfsJSON.String != "" {
		if err := json.Unmarshal([]byte(pdfsJSON.String), &user.CVs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pdfs column: %w", err)
		}
	}
	if addressJSON.Valid && addressJSON.String != "" {
		user.Address = &models.Address{}
		if err := json.Unmarshal([]byte(addressJSON.String), user.Address); err != nil {
			return nil, fmt.Errorf("failed to unmarshal address column: %w", err)
		}
	}

	return user, nil
}

// marshalNullable encodes v as JSON, or returns SQL NULL for nil values
func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case []string:
		if val == nil {
			return nil, nil
		}
	case *models.Address:
		if val == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
