package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleHome)
		r.Post("/quiz", s.handleNewQuestion)
		r.Post("/quiz/reveal", s.handleReveal)
		r.Post("/debug", s.handleToggleDebug)
		r.Get("/history", s.handleHistory)
		r.Get("/rounds/{id}/diagram.svg", s.handleRoundDiagram)
		r.Get("/rounds/{id}/chord.mid", s.handleRoundMIDI)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)

		r.Post("/validate", s.handleAPIValidate)
		r.Post("/render", s.handleAPIRender)
		r.With(s.sessionMiddleware).Get("/rounds/{id}", s.handleAPIRound)
	})

	if s.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	}
	return r
}
