package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := utils.InitTokens(utils.TokenConfig{Secret: testSecret}); err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(), RequireRole("admin"))
	admin.GET("/ping", func(c *gin.Context) {
		c.String(200, c.GetString("userId"))
	})
	return r
}

func signed(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := utils.SignToken(sub, role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong role", "Bearer " + signed(t, "auth0|staff", "staff"), http.StatusForbidden},
		{"admin", "Bearer " + signed(t, "auth0|admin", "admin"), http.StatusOK},
		{"admin without prefix", signed(t, "auth0|admin", "admin"), http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.status)
		}
		if tt.status == http.StatusOK && w.Body.String() != "auth0|admin" {
			t.Errorf("%s: body = %q", tt.name, w.Body.String())
		}
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	r := newRouter(t)
	tok, err := utils.SignToken("auth0|admin", "admin", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}
