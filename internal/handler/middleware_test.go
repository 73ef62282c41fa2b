package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/fazletdinov/vidstream/internal/model"
	"github.com/fazletdinov/vidstream/internal/service"
)

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	svc, _ := newTestAuthService(t)
	r := gin.New()
	r.GET("/protected", AuthRequired(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, CurrentUser(c).Public())
	})

	if _, err := svc.Register(ctx, "a@x.com", "password1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	pair, err := svc.Login(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", want: http.StatusForbidden},
		{name: "refresh token as access", header: "Bearer " + pair.RefreshToken, want: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + pair.AccessToken, want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, w.Code, w.Body.String())
			}
		})
	}

	// a still-valid token stops working once the user is deactivated
	if _, err := svc.Deactivate(ctx, 1); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after deactivation, got %d", w.Code)
	}
}

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/mod",
		func(c *gin.Context) {
			c.Set(currentUserKey, &model.User{ID: 1, IsActive: true, Role: model.RoleUser})
		},
		Authorize(service.RequireRole(model.RoleModerator)),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mod", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-moderator, got %d", w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allow-origin header, got %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin for unknown origin: %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
}
