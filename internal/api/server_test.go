package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("ADMIN_SECRET", "test-secret")

	s := &Server{Log: zap.NewNop()}
	e := echo.New()
	handler := s.adminMiddleware(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"no credentials", nil, http.StatusUnauthorized},
		{"wrong secret", map[string]string{"X-Admin-Secret": "nope"}, http.StatusUnauthorized},
		{"admin header", map[string]string{"X-Admin-Secret": "test-secret"}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer test-secret"}, http.StatusOK},
		{"malformed bearer", map[string]string{"Authorization": "Bearertest-secret"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler(c); err != nil {
				t.Fatalf("middleware returned %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Setenv("ADMIN_SECRET", "test-secret")
	s := NewServer(nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
