package models

import "time"

// Role is a user's authorization role. The set is closed: there is no
// hierarchy, admin does not implicitly satisfy a user-only check.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// RoleAllowed reports whether role is an exact member of the allowed set.
func RoleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Address holds the optional structured address of a user
type Address struct {
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	Ward     string `json:"ward,omitempty"`
}

// User represents a user record in the database
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	ProfilePic   string    `json:"profile_pic,omitempty"`
	CoverPhoto   string    `json:"cover_photo,omitempty"`
	CoverPhotoID string    `json:"cover_photo_id,omitempty"`
	CVs          []string  `json:"pdf,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the request-scoped identity attached by the authentication
// middleware. It is derived fresh from the users table on every request and
// is never persisted or cached.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EditUserRequest represents a partial profile update. Email and role are
// deliberately absent: they are not updatable through the edit path.
type EditUserRequest struct {
	Name       string
	Password   string
	Address    *Address
	ProfilePic *string // nil = unchanged, empty = clear, non-empty = replace
}
