package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
)

const historyPageSize = 20

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sess := sessionFromContext(r.Context())

	chord := strings.TrimSpace(r.URL.Query().Get("chord"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	log.Debug("rendering history: chord=%q, page=%d", chord, page)

	filter := models.RoundFilter{
		SessionID: sess.ID,
		ChordName: chord,
		Limit:     historyPageSize,
		Offset:    (page - 1) * historyPageSize,
	}
	rounds, total, err := s.QuizService.History(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	counts, err := s.QuizService.ChordCounts(r.Context(), sess.ID)
	if err != nil {
		log.Warn("failed to load chord counts: %v", err)
	}

	pages := (total + historyPageSize - 1) / historyPageSize
	if pages < 1 {
		pages = 1
	}

	s.render(w, r, "pages/history.html", pageData{
		"title":  "History",
		"chord":  chord,
		"counts": counts,
		"rounds": rounds,
		"total":  total,
		"page":   page,
		"pages":  pages,
	})
}
