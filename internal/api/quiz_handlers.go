package api

import (
	"net/http"

	"github.com/vytor/chordflash/internal/errors"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("rendering home page")

	sess := sessionFromContext(r.Context())
	data := pageData{"session": sess}

	if sess != nil && sess.CurrentRoundID != nil {
		round, err := s.QuizService.GetRound(r.Context(), *sess.CurrentRoundID)
		if err != nil {
			log.Warn("failed to load current round %d: %v", *sess.CurrentRoundID, err)
		} else {
			data["round"] = round
		}
	}
	if sess != nil && sess.Debug {
		if round, ok := data["round"].(*models.QuizRound); ok {
			data["debug"] = buildDebugPanel(round.Quiz)
		}
	}

	s.render(w, r, "pages/home.html", data)
}

// handleNewQuestion replaces the session's round with a fresh quiz. A
// generator or validation failure is shown in place of the question.
func (s *Server) handleNewQuestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sess := sessionFromContext(r.Context())

	round, err := s.QuizService.NewRound(r.Context(), sess.ID)
	if err != nil {
		appErr, ok := errors.As(err)
		if !ok {
			appErr = errors.NewInternalError(err)
		}
		log.Warn("new question failed: %v", appErr)
		s.renderStatus(w, r, appErr.Status, "pages/home.html", pageData{
			"session":    sess,
			"error":      appErr.Message,
			"error_code": appErr.Code,
		})
		return
	}

	if err := s.SessionService.SetCurrentRound(r.Context(), sess, round.ID); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := s.SessionService.Reveal(r.Context(), sess); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleToggleDebug(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid form"))
		return
	}
	on := r.FormValue("debug") == "on"

	sess := sessionFromContext(r.Context())
	if err := s.SessionService.SetDebug(r.Context(), sess, on); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRoundDiagram(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	writeSVG(w, r, round.Quiz)
}

func (s *Server) handleRoundMIDI(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	writeMIDI(w, r, round)
}

func (s *Server) loadRound(w http.ResponseWriter, r *http.Request) (*models.QuizRound, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return nil, false
	}
	round, err := s.QuizService.GetRound(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return nil, false
	}
	// Rounds of other sessions look missing rather than forbidden.
	if sess := sessionFromContext(r.Context()); sess == nil || round.SessionID != sess.ID {
		handleError(w, r, errors.NewNotFoundError("round", id))
		return nil, false
	}
	return round, true
}
