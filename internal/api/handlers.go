package api

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	QuizService    services.QuizService
	SessionService services.SessionService
	Templates      *template.Template
	DB             Pinger
	Static         fs.FS
	CORSOrigins    []string
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["session"]; !ok {
		data["session"] = sessionFromContext(r.Context())
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
	}
}
