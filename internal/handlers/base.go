package handlers

import (
	"errors"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError shows the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// FailPage maps a service error onto the response boundary: missing
// entities get a 404 page, anything else a 500 page. Validation and
// authorization errors are handled at the call sites, which know which
// form to re-render or where to redirect.
func FailPage(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RenderError(c, http.StatusNotFound, "Page not found")
	default:
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// CurrentUser returns the logged-in user; handlers behind AuthRequired can
// rely on it being present.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CheckUserKey).(*models.User)
}
