package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"selfhelpblog/internal/models"

	"github.com/gin-gonic/gin"
)

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestAuthRequiredPassesLoadedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(CheckUserKey, &models.User{ID: 1, Email: "a@x.com"})
	})
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "secret")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	if w.Code != http.StatusOK || w.Body.String() != "secret" {
		t.Errorf("expected 200 secret, got %d %q", w.Code, w.Body.String())
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	line := buf.String()
	for _, want := range []string{"method=GET", "path=/missing", "status=404"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}
