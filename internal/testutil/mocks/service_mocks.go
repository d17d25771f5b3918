package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/prompt"
)

// MockGenerator is a mock implementation of generator.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Name() string {
	return m.Called().String(0)
}

func (m *MockGenerator) Generate(ctx context.Context, p prompt.Prompt) ([]byte, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockGenerationService is a mock implementation of services.GenerationService
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Provider() string {
	return m.Called().String(0)
}

func (m *MockGenerationService) GenerateQuiz(ctx context.Context) (models.ChordQuiz, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ChordQuiz), args.Error(1)
}

// MockQuizService is a mock implementation of services.QuizService
type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) NewRound(ctx context.Context, sessionID string) (*models.QuizRound, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizRound), args.Error(1)
}

func (m *MockQuizService) GetRound(ctx context.Context, id int64) (*models.QuizRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizRound), args.Error(1)
}

func (m *MockQuizService) History(ctx context.Context, filter models.RoundFilter) ([]models.QuizRound, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.QuizRound), args.Int(1), args.Error(2)
}

func (m *MockQuizService) ChordCounts(ctx context.Context, sessionID string) ([]models.ChordCount, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChordCount), args.Error(1)
}

// MockSessionService is a mock implementation of services.SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Load(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) SetCurrentRound(ctx context.Context, sess *models.Session, roundID int64) error {
	args := m.Called(ctx, sess, roundID)
	if args.Error(0) == nil {
		sess.CurrentRoundID = &roundID
		sess.ShowAnswer = false
	}
	return args.Error(0)
}

func (m *MockSessionService) Reveal(ctx context.Context, sess *models.Session) error {
	args := m.Called(ctx, sess)
	if args.Error(0) == nil {
		sess.ShowAnswer = true
	}
	return args.Error(0)
}

func (m *MockSessionService) SetDebug(ctx context.Context, sess *models.Session, on bool) error {
	args := m.Called(ctx, sess, on)
	if args.Error(0) == nil {
		sess.Debug = on
	}
	return args.Error(0)
}
