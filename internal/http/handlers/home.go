package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"tasktracker/internal/http/middleware"
	"tasktracker/internal/logger"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded HTML templates for gin's renderer.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"formatDate": formatDate,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

func formatDate(t time.Time) string {
	return t.Local().Format("1月2日 15:04")
}

// Home renders the caller's tasks, or the sign-in prompt without a session.
// A storage failure degrades to the signed-out page.
func (h *Handler) Home(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.HTML(http.StatusOK, "home.tmpl", gin.H{})
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), sess.UserID)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("error fetching home data", "error", err)
		c.HTML(http.StatusOK, "home.tmpl", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Session": sess,
		"Tasks":   tasks,
	})
}
