package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"selfhelpblog/internal/db"
	"selfhelpblog/internal/middleware"
	"selfhelpblog/internal/models"
	"selfhelpblog/internal/utils"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := currentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message, "Title": http.StatusText(code)})
}

// renderFailure maps a store error to a page and records it on the context.
func renderFailure(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, db.ErrNotFound) || errors.Is(err, utils.ErrInvalidID) {
		RenderError(c, http.StatusNotFound, notFoundMessage)
		return
	}
	c.Error(err)
	slog.ErrorContext(c.Request.Context(), "request failed", slog.String("error", err.Error()))
	RenderError(c, http.StatusInternalServerError, "Something went wrong")
}

func currentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(middleware.CheckUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
