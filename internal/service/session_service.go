package service

import (
	"context"
	"errors"
	"time"

	"dentsim_backend/internal/model"
	"dentsim_backend/internal/repository"
	"dentsim_backend/internal/util"
	"dentsim_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// contextWindowSize bounds how many recent turns are replayed to the
// generation service on each call.
const contextWindowSize = 10

type SessionService struct {
	SessionRepo *repository.SessionRepository
	TurnRepo    *repository.TurnRepository
	Catalog     *CatalogService
	Gateway     Generator
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	turnRepo *repository.TurnRepository,
	catalog *CatalogService,
	gateway Generator,
) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		TurnRepo:    turnRepo,
		Catalog:     catalog,
		Gateway:     gateway,
	}
}

type SessionStart struct {
	SessionID   string `json:"sessionId"`
	OpeningLine string `json:"openingLine"`
}

type SessionSummary struct {
	SessionID string     `json:"sessionId"`
	CaseName  string     `json:"caseName"`
	Correct   *bool      `json:"correct"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
}

// Start draws a case and opens an Active session. The case script is held by
// reference only; no initial turn is persisted and neither the case name nor
// the script is exposed to the caller.
func (s *SessionService) Start(userID uint, difficulty model.CaseDifficulty) (*SessionStart, error) {
	picked, err := s.Catalog.PickRandom(difficulty)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		UserID:    userID,
		CaseID:    picked.ID,
		StartedAt: time.Now(),
		Status:    model.SessionActive,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	return &SessionStart{
		SessionID:   session.ID,
		OpeningLine: picked.OpeningLine,
	}, nil
}

// SendMessage records the learner's turn, asks the generation service for the
// patient's reply and records it. The learner turn is durable before the
// upstream call; a failed call leaves the session Active with no patient turn.
// No lock on session or learner state is held across the upstream call.
func (s *SessionService) SendMessage(ctx context.Context, userID uint, sessionID, text string) (string, error) {
	session, err := s.loadOwnedSession(sessionID, userID)
	if err != nil {
		return "", err
	}
	if session.Status == model.SessionCompleted {
		return "", util.ErrSessionCompleted
	}

	learnerTurn := &model.Turn{
		SessionID: session.ID,
		Speaker:   model.SpeakerLearner,
		Text:      text,
	}
	if err := s.TurnRepo.Append(learnerTurn); err != nil {
		return "", err
	}

	turns, err := s.TurnRepo.FindRecent(session.ID, contextWindowSize)
	if err != nil {
		return "", err
	}

	reply, err := s.Gateway.Generate(ctx, buildContext(session.Case.Script, turns, contextWindowSize))
	if err != nil {
		logger.Log.Warn("patient reply generation failed",
			zap.String("session_id", session.ID),
			zap.Error(err))
		return "", err
	}

	patientTurn := &model.Turn{
		SessionID: session.ID,
		Speaker:   model.SpeakerPatient,
		Text:      reply,
	}
	if err := s.TurnRepo.Append(patientTurn); err != nil {
		return "", err
	}

	return reply, nil
}

func (s *SessionService) History(userID uint) ([]SessionSummary, error) {
	sessions, err := s.SessionRepo.FindCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, len(sessions))
	for i, sess := range sessions {
		summaries[i] = SessionSummary{
			SessionID: sess.ID,
			CaseName:  sess.Case.Name,
			Correct:   sess.VerdictCorrect,
			StartedAt: sess.StartedAt,
			EndedAt:   sess.EndedAt,
		}
	}
	return summaries, nil
}

func (s *SessionService) loadOwnedSession(sessionID string, userID uint) (*model.Session, error) {
	session, err := s.SessionRepo.FindByIDWithCase(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	// a foreign learner's session is indistinguishable from a missing one
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// buildContext assembles the bounded payload for the generation service: the
// case's behavioral script first as the system message, then the most recent
// windowSize turns in chronological order, learner mapped to "user" and
// patient to "assistant". Deterministic given the same turn log.
func buildContext(script string, turns []model.Turn, windowSize int) []ChatMessage {
	if len(turns) > windowSize {
		turns = turns[len(turns)-windowSize:]
	}

	messages := make([]ChatMessage, 0, len(turns)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: script})

	for _, t := range turns {
		role := "user"
		if t.Speaker == model.SpeakerPatient {
			role = "assistant"
		}
		messages = append(messages, ChatMessage{Role: role, Content: t.Text})
	}
	return messages
}
