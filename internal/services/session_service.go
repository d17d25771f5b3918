package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/vytor/chordflash/internal/errors"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/repository"
)

// SessionService owns the presentation state of a browser session.
type SessionService interface {
	// Load returns the session with id, creating a fresh one when id is
	// empty or unknown.
	Load(ctx context.Context, id string) (*models.Session, error)
	SetCurrentRound(ctx context.Context, sess *models.Session, roundID int64) error
	Reveal(ctx context.Context, sess *models.Session) error
	SetDebug(ctx context.Context, sess *models.Session, on bool) error
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	newID       func() string
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repository.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo, newID: uuid.NewString}
}

func (s *sessionService) Load(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	if id != "" {
		if _, err := uuid.Parse(id); err == nil {
			sess, err := s.sessionRepo.Get(ctx, id)
			if err == nil && sess != nil {
				return sess, nil
			}
			if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
				log.Error("failed to load session: %v", err)
				return nil, errors.NewInternalError(err)
			}
		}
		log.Debug("unknown session %q, starting a new one", id)
	}

	sess, err := s.sessionRepo.Create(ctx, s.newID())
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sess, nil
}

// SetCurrentRound puts a new round on screen with its answer hidden.
func (s *sessionService) SetCurrentRound(ctx context.Context, sess *models.Session, roundID int64) error {
	sess.CurrentRoundID = &roundID
	sess.ShowAnswer = false
	return s.save(ctx, sess)
}

func (s *sessionService) Reveal(ctx context.Context, sess *models.Session) error {
	if sess.CurrentRoundID == nil {
		return errors.NewBadRequestError("no question to reveal yet")
	}
	sess.ShowAnswer = true
	return s.save(ctx, sess)
}

func (s *sessionService) SetDebug(ctx context.Context, sess *models.Session, on bool) error {
	sess.Debug = on
	return s.save(ctx, sess)
}

func (s *sessionService) save(ctx context.Context, sess *models.Session) error {
	if err := s.sessionRepo.Update(ctx, *sess); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("session", sess.ID)
		}
		logger.FromContext(ctx).Error("failed to update session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
