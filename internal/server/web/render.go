package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/auth"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format(forms.DateLayout) },
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
}

// render executes a page with the values every page expects.
func (s *Server) render(c *gin.Context, code int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = auth.UserFromContext(c.Request.Context())
	data["Flash"] = s.popFlash(c)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.FieldErrors{}
	}
	c.HTML(code, page, data)
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "not_found.html", nil)
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"CurrentUser": auth.UserFromContext(c.Request.Context()),
		"Errors":      forms.FieldErrors{},
	})
}

// fail renders the page state that matches err: 404 for a missing
// resource, the page's error flag for a resource owned by someone else,
// the form with messages for validation errors, 500 otherwise.
func (s *Server) fail(c *gin.Context, err error, page string, data gin.H, notOwned string) {
	if data == nil {
		data = gin.H{}
	}
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.notFound(c)
	case errors.Is(err, common.ErrNotOwned):
		s.render(c, http.StatusOK, page, gin.H{"Error": true, "ErrorMessage": notOwned, "Heading": data["Heading"]})
	default:
		if fe, ok := forms.AsFieldErrors(err); ok {
			data["Errors"] = fe
			s.render(c, http.StatusOK, page, data)
			return
		}
		s.internalError(c, err)
	}
}
