package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/chordflash/internal/diagram"
	"github.com/vytor/chordflash/internal/errors"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/midiexport"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/quiz"
)

const maxQuizBody = 1 << 20

func parseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError(param, fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

// readQuiz validates a ChordQuiz document posted in the request body.
func readQuiz(w http.ResponseWriter, r *http.Request) (models.ChordQuiz, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQuizBody))
	if err != nil {
		return models.ChordQuiz{}, errors.NewBadRequestError("could not read request body")
	}
	q, err := quiz.Parse(body)
	if err != nil {
		return models.ChordQuiz{}, errors.NewSchemaValidationError(err)
	}
	return q, nil
}

func writeSVG(w http.ResponseWriter, r *http.Request, q models.ChordQuiz) {
	img := diagram.Render(q)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if err := img.WriteSVG(w); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write svg: %v", err)
	}
}

func writeMIDI(w http.ResponseWriter, r *http.Request, round *models.QuizRound) {
	var buf bytes.Buffer
	if err := midiexport.Write(&buf, round.Quiz); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="round-%d.mid"`, round.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write midi: %v", err)
	}
}

type keyMismatch struct {
	Index int
	Key   models.KeyDescriptor
}

type debugPanel struct {
	JSON       string
	WhiteKeys  []int
	BlackKeys  []int
	Mismatches []keyMismatch
}

// buildDebugPanel lists the valid coordinates and flags keys whose position
// and label disagree with the keyboard table. Nothing here changes what is
// drawn.
func buildDebugPanel(q models.ChordQuiz) debugPanel {
	var panel debugPanel

	if raw, err := json.MarshalIndent(q, "", "  "); err == nil {
		panel.JSON = string(raw)
	}
	for _, k := range diagram.WhiteKeys() {
		panel.WhiteKeys = append(panel.WhiteKeys, k.X)
	}
	for _, k := range diagram.BlackKeys() {
		panel.BlackKeys = append(panel.BlackKeys, k.X)
	}
	for i, k := range q.Keys {
		if !diagram.Matches(k) {
			panel.Mismatches = append(panel.Mismatches, keyMismatch{Index: i, Key: k})
		}
	}
	return panel
}
