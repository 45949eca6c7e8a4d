package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/profilehub/user-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	registerErr error
	registered  *models.RegisterRequest
	loginUser   *models.User
	loginToken  string
	loginErr    error
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.registered = req
	return &models.User{ID: 1, Name: req.Name, Email: req.Email, Role: models.RoleUser}, nil
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	if m.loginErr != nil {
		return nil, "", m.loginErr
	}
	return m.loginUser, m.loginToken, nil
}

func setupAuthRouter(service *mockAuthService) *chi.Mux {
	handler := NewAuthHandler(service, zap.NewNop())
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *mockAuthService
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           `{"name":"A","email":"a@x.com","password":"secret1"}`,
			service:        &mockAuthService{},
			expectedStatus: http.StatusCreated,
			expectedBody:   "user registered successfully",
		},
		{
			name:           "invalid body",
			body:           `{not json`,
			service:        &mockAuthService{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:           "validation failure",
			body:           `{"name":"A","email":"bad","password":"1"}`,
			service:        &mockAuthService{registerErr: models.ValidationError{"email": "invalid email"}},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "validation failed",
		},
		{
			name:           "duplicate email",
			body:           `{"name":"A","email":"a@x.com","password":"secret1"}`,
			service:        &mockAuthService{registerErr: models.ErrEmailExists},
			expectedStatus: http.StatusConflict,
			expectedBody:   "email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tt.service)

			req := httptest.NewRequest(http.MethodPost, "/user/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns user and token", func(t *testing.T) {
		service := &mockAuthService{
			loginUser:  &models.User{ID: 1, Name: "A", Email: "a@x.com", Role: models.RoleUser},
			loginToken: "signed-token",
		}
		router := setupAuthRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/user/login",
			bytes.NewBufferString(`{"email":"a@x.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.JSONEq(t, `"signed-token"`, string(resp["token"]))
		assert.NotContains(t, string(resp["user"]), "password", "password hash must not leak")
	})

	t.Run("unknown email", func(t *testing.T) {
		service := &mockAuthService{loginErr: models.ErrUserNotFound}
		router := setupAuthRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/user/login",
			bytes.NewBufferString(`{"email":"missing@x.com","password":"secret1"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "user not found")
	})

	t.Run("wrong password", func(t *testing.T) {
		service := &mockAuthService{loginErr: models.ErrInvalidCredentials}
		router := setupAuthRouter(service)

		req := httptest.NewRequest(http.MethodPost, "/user/login",
			bytes.NewBufferString(`{"email":"a@x.com","password":"wrong"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "incorrect password")
	})
}
