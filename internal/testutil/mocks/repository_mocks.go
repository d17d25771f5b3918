package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/chordflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Create(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockRoundRepository is a mock implementation of repository.RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Insert(ctx context.Context, round models.QuizRound) (*models.QuizRound, error) {
	args := m.Called(ctx, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizRound), args.Error(1)
}

func (m *MockRoundRepository) Get(ctx context.Context, id int64) (*models.QuizRound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizRound), args.Error(1)
}

func (m *MockRoundRepository) List(ctx context.Context, filter models.RoundFilter) ([]models.QuizRound, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizRound), args.Error(1)
}

func (m *MockRoundRepository) Count(ctx context.Context, filter models.RoundFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRoundRepository) ChordCounts(ctx context.Context, sessionID string, limit int) ([]models.ChordCount, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChordCount), args.Error(1)
}

// MockPrefetchRepository is a mock implementation of repository.PrefetchRepository
type MockPrefetchRepository struct {
	mock.Mock
}

func (m *MockPrefetchRepository) Push(ctx context.Context, provider string, quiz models.ChordQuiz) (int64, error) {
	args := m.Called(ctx, provider, quiz)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrefetchRepository) Pop(ctx context.Context) (*models.PrefetchedQuiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PrefetchedQuiz), args.Error(1)
}

func (m *MockPrefetchRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
