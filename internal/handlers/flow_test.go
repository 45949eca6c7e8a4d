package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/profilehub/user-service/internal/middleware"
	"github.com/profilehub/user-service/internal/models"
	"github.com/profilehub/user-service/internal/services"
	"github.com/profilehub/user-service/internal/storage"
	"github.com/profilehub/user-service/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memUserRepository is an in-memory stand-in for the MySQL repository, used
// to exercise the full request path: router, middleware, handlers, services.
type memUserRepository struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{nextID: 1, users: map[int]*models.User{}}
}

func (r *memUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return models.ErrEmailExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *memUserRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepository) GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &models.Identity{ID: u.ID, Email: u.Email, Role: u.Role}, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *memUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return models.ErrUserNotFound
	}
	// Email and role columns are not part of the update statement
	email, role := stored.Email, stored.Role
	copied := *user
	copied.Email = email
	copied.Role = role
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepository) Delete(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return models.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *memUserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []models.User{}
	for _, u := range r.users {
		if u.Role == role {
			copied := *u
			copied.PasswordHash = ""
			users = append(users, copied)
		}
	}
	return users, nil
}

// setupServer wires the real router, middleware, services and handlers on
// top of the in-memory repository.
func setupServer(t *testing.T) (*chi.Mux, *memUserRepository) {
	t.Helper()
	logger := zap.NewNop()
	repo := newMemUserRepository()
	codec := token.NewCodec("test-secret", time.Hour)
	store := storage.NewLocalStorage(t.TempDir())

	authService := services.NewAuthService(repo, codec, logger)
	userService := services.NewUserService(repo, store, logger)
	adminService := services.NewAdminService(repo, logger)

	authMiddleware := middleware.Authenticate(codec, repo, logger)
	adminMiddleware := middleware.RequireRoles(models.RoleAdmin)

	r := chi.NewRouter()
	NewAuthHandler(authService, logger).RegisterRoutes(r)
	NewUserHandler(userService, logger).RegisterRoutes(r, authMiddleware)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		NewAdminHandler(adminService, logger).RegisterRoutes(r)
	})

	return r, repo
}

func postJSON(t *testing.T, router http.Handler, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginDashboardFlow(t *testing.T) {
	router, _ := setupServer(t)

	// Register
	w := postJSON(t, router, "/user/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate registration conflicts
	w = postJSON(t, router, "/user/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the wrong password
	w = postJSON(t, router, "/user/login", `{"email":"a@x.com","password":"wrong-pass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Login with the correct password
	w = postJSON(t, router, "/user/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	require.NotEmpty(t, loginResp.Token)
	assert.Equal(t, "a@x.com", loginResp.User.Email)

	// A regular user's token does not open the admin dashboard
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "access denied")

	// No token at all
	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminFlow(t *testing.T) {
	router, _ := setupServer(t)

	// Seed one regular user and one admin
	w := postJSON(t, router, "/user/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	w = postJSON(t, router, "/user/register", `{"name":"Root","email":"root@x.com","password":"secret1","role":"admin"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/user/login", `{"email":"root@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))

	// Dashboard lists only the non-admin user
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var dashResp struct {
		TotalUsers int           `json:"totalUsers"`
		Users      []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashResp))
	assert.Equal(t, 1, dashResp.TotalUsers)
	require.Len(t, dashResp.Users, 1)
	assert.Equal(t, "a@x.com", dashResp.Users[0].Email)

	// Delete the user
	userID := dashResp.Users[0].ID
	req = httptest.NewRequest(http.MethodDelete, "/admin/deleteUser/"+strconv.Itoa(userID), nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// The deleted user's token no longer authenticates
	loginW := postJSON(t, router, "/user/login", `{"email":"a@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusNotFound, loginW.Code)
}

func TestEditRequiresAuthentication(t *testing.T) {
	router, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodPut, "/user/edit/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token provided")
}

func TestDeletedUserTokenRejected(t *testing.T) {
	router, repo := setupServer(t)

	w := postJSON(t, router, "/user/register", `{"name":"A","email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/user/login", `{"email":"a@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))

	// Remove the user out of band; the still-valid token must now fail
	require.NoError(t, repo.Delete(context.Background(), loginResp.User.ID))

	req := httptest.NewRequest(http.MethodPut, "/user/edit/"+strconv.Itoa(loginResp.User.ID), nil)
	req.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
}
