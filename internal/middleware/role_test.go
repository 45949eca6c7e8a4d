package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profilehub/user-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name            string
		identity        *models.Identity
		allowed         []models.Role
		expectedStatus  int
		expectedBody    string
		handlerExecutes bool
	}{
		{
			name:            "missing identity is a wiring defect, not a denial",
			identity:        nil,
			allowed:         []models.Role{models.RoleAdmin},
			expectedStatus:  http.StatusUnauthorized,
			expectedBody:    "user info missing",
			handlerExecutes: false,
		},
		{
			name:            "identity with empty role",
			identity:        &models.Identity{ID: 1, Email: "a@x.com"},
			allowed:         []models.Role{models.RoleAdmin},
			expectedStatus:  http.StatusUnauthorized,
			expectedBody:    "user info missing",
			handlerExecutes: false,
		},
		{
			name:            "user role denied on admin route",
			identity:        &models.Identity{ID: 1, Email: "a@x.com", Role: models.RoleUser},
			allowed:         []models.Role{models.RoleAdmin},
			expectedStatus:  http.StatusForbidden,
			expectedBody:    "access denied",
			handlerExecutes: false,
		},
		{
			name:            "admin role allowed on admin route",
			identity:        &models.Identity{ID: 1, Email: "a@x.com", Role: models.RoleAdmin},
			allowed:         []models.Role{models.RoleAdmin},
			expectedStatus:  http.StatusOK,
			handlerExecutes: true,
		},
		{
			name:            "no hierarchy: admin denied on user-only route",
			identity:        &models.Identity{ID: 1, Email: "a@x.com", Role: models.RoleAdmin},
			allowed:         []models.Role{models.RoleUser},
			expectedStatus:  http.StatusForbidden,
			expectedBody:    "access denied",
			handlerExecutes: false,
		},
		{
			name:            "multiple allowed roles",
			identity:        &models.Identity{ID: 1, Email: "a@x.com", Role: models.RoleUser},
			allowed:         []models.Role{models.RoleUser, models.RoleAdmin},
			expectedStatus:  http.StatusOK,
			handlerExecutes: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executed := false
			handler := RequireRoles(tt.allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				executed = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.handlerExecutes, executed)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, models.RoleAllowed(models.RoleAdmin, []models.Role{models.RoleAdmin}))
	assert.True(t, models.RoleAllowed(models.RoleUser, []models.Role{models.RoleUser, models.RoleAdmin}))
	assert.False(t, models.RoleAllowed(models.RoleAdmin, []models.Role{models.RoleUser}))
	assert.False(t, models.RoleAllowed(models.RoleUser, nil))
}
