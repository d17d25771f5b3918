package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/chordflash/internal/errors"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/quiz"
	"github.com/vytor/chordflash/internal/testutil"
	"github.com/vytor/chordflash/internal/testutil/mocks"
	"github.com/vytor/chordflash/web"
)

const knownSession = "4f1c2b9e-8d0a-4c55-9a43-3f1f3c2a9d10"

type pingerFunc func(context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type testServer struct {
	srv      *Server
	handler  http.Handler
	quiz     *mocks.MockQuizService
	sessions *mocks.MockSessionService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpl, err := LoadTemplates(web.FS)
	require.NoError(t, err)
	static, err := fs.Sub(web.FS, "static")
	require.NoError(t, err)

	ts := &testServer{
		quiz:     new(mocks.MockQuizService),
		sessions: new(mocks.MockSessionService),
	}
	ts.srv = &Server{
		QuizService:    ts.quiz,
		SessionService: ts.sessions,
		Templates:      tmpl,
		Static:         static,
		CORSOrigins:    []string{"https://example.com"},
	}
	ts.handler = ts.srv.Routes()
	return ts
}

// withSession makes the session middleware resolve the test cookie to sess.
func (ts *testServer) withSession(sess *models.Session) {
	ts.sessions.On("Load", mock.Anything, knownSession).Return(sess, nil)
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: knownSession})
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func roundOf(id int64, q models.ChordQuiz) *models.QuizRound {
	return &models.QuizRound{ID: id, SessionID: knownSession, Provider: "static", Quiz: q}
}

func TestHome_IssuesSessionCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.sessions.On("Load", mock.Anything, "").Return(&models.Session{ID: knownSession}, nil)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New question")
	assert.NotContains(t, rec.Body.String(), "diagram.svg")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, knownSession, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestHome_KnownSessionKeepsCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestHome_HidesAnswerUntilRevealed(t *testing.T) {
	roundID := int64(7)

	for _, revealed := range []bool{false, true} {
		ts := newTestServer(t)
		ts.withSession(&models.Session{ID: knownSession, CurrentRoundID: &roundID, ShowAnswer: revealed})
		ts.quiz.On("GetRound", mock.Anything, roundID).Return(roundOf(roundID, testutil.CMajor()), nil)

		body := ts.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()

		assert.Contains(t, body, `<span class="chord">C</span>`)
		if revealed {
			assert.Contains(t, body, "/rounds/7/diagram.svg")
			assert.Contains(t, body, "/rounds/7/chord.mid")
			assert.Contains(t, body, testutil.CMajor().Explanation)
			assert.NotContains(t, body, "Show answer")
		} else {
			assert.Contains(t, body, "Show answer")
			assert.NotContains(t, body, "diagram.svg")
			assert.NotContains(t, body, testutil.CMajor().Explanation)
		}
	}
}

func TestHome_DebugPanel(t *testing.T) {
	roundID := int64(3)
	q := testutil.CMajor()
	q.Keys[1].X = 120

	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession, CurrentRoundID: &roundID, Debug: true})
	ts.quiz.On("GetRound", mock.Anything, roundID).Return(roundOf(roundID, q), nil)

	body := ts.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()

	assert.Contains(t, body, "White keys: 10, 60, 110, 160")
	assert.Contains(t, body, "Black keys: 45, 95, 195")
	assert.Contains(t, body, "keys[1]: x=120")
	assert.Contains(t, body, "&#34;chord_name&#34;: &#34;C&#34;")
}

func TestNewQuestion_StartsRound(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession, ShowAnswer: true})
	ts.quiz.On("NewRound", mock.Anything, knownSession).Return(roundOf(9, testutil.CMajor()), nil)
	ts.sessions.On("SetCurrentRound", mock.Anything, mock.AnythingOfType("*models.Session"), int64(9)).Return(nil)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/quiz", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	ts.quiz.AssertExpectations(t)
	ts.sessions.AssertExpectations(t)
}

func TestNewQuestion_SurfacesGeneratorFailures(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
		code   string
	}{
		"schema": {
			err:    errors.NewSchemaValidationError(&quiz.ValidationError{Field: "keys[0].note", Reason: "unknown note"}),
			status: http.StatusUnprocessableEntity,
			code:   errors.ErrCodeSchemaValidation,
		},
		"transport": {
			err:    errors.NewTransportError("openai:gpt-4o", context.DeadlineExceeded),
			status: http.StatusBadGateway,
			code:   errors.ErrCodeTransport,
		},
		"unexpected": {
			err:    stderrors.New("boom"),
			status: http.StatusInternalServerError,
			code:   errors.ErrCodeInternal,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.withSession(&models.Session{ID: knownSession})
			ts.quiz.On("NewRound", mock.Anything, knownSession).Return(nil, tt.err)

			rec := ts.do(httptest.NewRequest(http.MethodPost, "/quiz", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
			assert.Contains(t, rec.Body.String(), "New question")
			ts.sessions.AssertNotCalled(t, "SetCurrentRound", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReveal(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})
	ts.sessions.On("Reveal", mock.Anything, mock.Anything).
		Return(errors.NewBadRequestError("no question to reveal yet")).Once()

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/quiz/reveal", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.sessions.On("Reveal", mock.Anything, mock.Anything).Return(nil).Once()
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/quiz/reveal", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestToggleDebug(t *testing.T) {
	for value, want := range map[string]bool{"on": true, "off": false} {
		ts := newTestServer(t)
		ts.withSession(&models.Session{ID: knownSession})
		ts.sessions.On("SetDebug", mock.Anything, mock.Anything, want).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/debug", strings.NewReader("debug="+value))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := ts.do(req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		ts.sessions.AssertExpectations(t)
	}
}

func TestHistory_FiltersAndPaginates(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})

	filter := models.RoundFilter{SessionID: knownSession, ChordName: "G7", Limit: historyPageSize, Offset: historyPageSize}
	ts.quiz.On("History", mock.Anything, filter).
		Return([]models.QuizRound{*roundOf(21, testutil.CMajor())}, 45, nil)
	ts.quiz.On("ChordCounts", mock.Anything, knownSession).
		Return([]models.ChordCount{{ChordName: "G7", Count: 45}}, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/history?chord=G7&page=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Page 2 of 3 (45 rounds)")
	assert.Contains(t, body, "/rounds/21/diagram.svg")
	ts.quiz.AssertExpectations(t)
}

func TestHistory_ServiceError(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})
	ts.quiz.On("History", mock.Anything, mock.Anything).Return(nil, 0, errors.NewInternalError(stderrors.New("disk I/O error")))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk I/O")
}

func TestRoundDiagram(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})
	ts.quiz.On("GetRound", mock.Anything, int64(1)).Return(roundOf(1, testutil.CMajor()), nil)
	ts.quiz.On("GetRound", mock.Anything, int64(2)).Return(nil, errors.NewNotFoundError("round", 2))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/rounds/1/diagram.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/rounds/2/diagram.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/rounds/abc/diagram.svg", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoundMIDI(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})
	ts.quiz.On("GetRound", mock.Anything, int64(4)).Return(roundOf(4, testutil.CMajor()), nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/rounds/4/chord.mid", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/midi", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "round-4.mid")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "MThd"))
}

func TestAPIValidate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(testutil.CMajorJSON)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, testutil.CMajor(), resp.Quiz)
	assert.Empty(t, resp.Mismatches)
}

func TestAPIValidate_ReportsOffTableKeys(t *testing.T) {
	ts := newTestServer(t)
	body := `{"chord_name":"D","keys":[{"x":60,"is_black":false,"finger":1,"note":"D"},{"x":160,"is_black":false,"finger":2,"note":"F#"}],"explanation":"x"}`

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{1}, resp.Mismatches)
}

func TestAPIValidate_RejectsInvalidQuiz(t *testing.T) {
	ts := newTestServer(t)
	body := `{"chord_name":"C","keys":[{"x":10,"is_black":false,"finger":1,"note":"H"}],"explanation":"x"}`

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodeSchemaValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "keys[0].note")
}

func TestAPIRender(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(testutil.CMajorJSON)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(`{"chord_name":"C"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPIRound(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})
	ts.quiz.On("GetRound", mock.Anything, int64(5)).Return(roundOf(5, testutil.CMajor()), nil)
	ts.quiz.On("GetRound", mock.Anything, int64(6)).Return(nil, errors.NewNotFoundError("round", 6))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/rounds/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var round models.QuizRound
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &round))
	assert.Equal(t, int64(5), round.ID)
	assert.Equal(t, "C", round.Quiz.ChordName)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/rounds/6", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.ErrCodeNotFound)
}

func TestRounds_HiddenFromOtherSessions(t *testing.T) {
	ts := newTestServer(t)
	ts.withSession(&models.Session{ID: knownSession})
	other := roundOf(7, testutil.CMajor())
	other.SessionID = "0b7e4c1a-2f3d-4e5b-8c6d-7e8f9a0b1c2d"
	ts.quiz.On("GetRound", mock.Anything, int64(7)).Return(other, nil)

	for _, path := range []string{"/rounds/7/diagram.svg", "/rounds/7/chord.mid", "/api/rounds/7"} {
		t.Run(path, func(t *testing.T) {
			rec := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.NotContains(t, rec.Body.String(), "MThd")
			assert.NotContains(t, rec.Body.String(), "<svg")
		})
	}
}

func TestAPI_CORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/validate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := ts.do(req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.srv.DB = pingerFunc(func(context.Context) error { return nil })
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.srv.DB = pingerFunc(func(context.Context) error { return stderrors.New("database is closed") })
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ts.sessions.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestStaticAssets(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
