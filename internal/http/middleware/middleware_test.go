package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/service"
)

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/items/:id", handlers...)
	return r
}

func TestUUIDValidator(t *testing.T) {
	r := setupRouter(UUIDValidator("id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name string
		path string
		code int
	}{
		{"valid", "/items/6f1c1d0e-8a43-4f5e-9a51-3c2b7d9e0a11", http.StatusOK},
		{"invalid", "/items/123", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestErrorHandler_MasksInternalErrors(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	req, _ := http.NewRequest(http.MethodGet, "/items/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestErrorHandler_DomainError(t *testing.T) {
	r := setupRouter(func(c *gin.Context) {
		_ = c.Error(apperror.ErrClaimNotFound)
	})

	req, _ := http.NewRequest(http.MethodGet, "/items/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"sinistro não encontrado"}}`, w.Body.String())
}

func TestRequestID_PropagatesToContext(t *testing.T) {
	var seen string
	r := setupRouter(func(c *gin.Context) {
		seen = service.RequestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	req, _ = http.NewRequest(http.MethodGet, "/items/1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, seen, 36)
}
