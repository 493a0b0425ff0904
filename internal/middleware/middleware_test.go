package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/models"
	"taskflow/internal/services"
)

func newRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(auth))
	r.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(CtxUserID), "role": c.GetString(CtxRole)})
	})
	r.POST("/api/admin", RequireRoles("admin"), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func do(r http.Handler, method, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth := services.NewAuthService("secret", time.Hour, bcrypt.MinCost)
	r := newRouter(auth)
	token, err := auth.GenerateToken(&models.User{ID: "worker1", Email: "worker@example.com", Role: "worker"})
	if err != nil {
		t.Fatalf("GenerateToken err=%v", err)
	}

	cases := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"public login", http.MethodPost, "/api/auth/login", "", http.StatusOK},
		{"missing header", http.MethodGet, "/api/me", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/api/me", "Basic " + token, http.StatusUnauthorized},
		{"empty bearer", http.MethodGet, "/api/me", "Bearer ", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/me", "Bearer nope", http.StatusUnauthorized},
		{"valid token", http.MethodGet, "/api/me", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", http.MethodGet, "/api/me", "bearer " + token, http.StatusOK},
		{"worker on admin route", http.MethodPost, "/api/admin", "Bearer " + token, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(r, tc.method, tc.path, tc.header); w.Code != tc.want {
				t.Fatalf("status=%d, want %d (body=%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestRequireRoles_Admin(t *testing.T) {
	auth := services.NewAuthService("secret", time.Hour, bcrypt.MinCost)
	r := newRouter(auth)
	token, err := auth.GenerateToken(&models.User{ID: "admin1", Email: "admin@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken err=%v", err)
	}
	if w := do(r, http.MethodPost, "/api/admin", "Bearer "+token); w.Code != http.StatusCreated {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusCreated)
	}
}
