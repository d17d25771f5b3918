package api

import (
	"net/http"

	"github.com/vytor/chordflash/internal/diagram"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
)

type validateResponse struct {
	Valid      bool             `json:"valid"`
	Quiz       models.ChordQuiz `json:"quiz"`
	Mismatches []int            `json:"mismatches"`
}

// handleAPIValidate checks a posted ChordQuiz. Keys that are off the
// keyboard table are reported by index but do not make the quiz invalid.
func (s *Server) handleAPIValidate(w http.ResponseWriter, r *http.Request) {
	q, err := readQuiz(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("validated quiz: %s (%d keys)", q.ChordName, len(q.Keys))

	resp := validateResponse{Valid: true, Quiz: q, Mismatches: []int{}}
	if resp.Quiz.Keys == nil {
		resp.Quiz.Keys = []models.KeyDescriptor{}
	}
	for i, k := range q.Keys {
		if !diagram.Matches(k) {
			resp.Mismatches = append(resp.Mismatches, i)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIRender(w http.ResponseWriter, r *http.Request) {
	q, err := readQuiz(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSVG(w, r, q)
}

func (s *Server) handleAPIRound(w http.ResponseWriter, r *http.Request) {
	round, ok := s.loadRound(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, round)
}
