package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/repository/contract"
	"enterprise-assistant-be/pkg/assistant/conversation"
	"enterprise-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// TurnHandler runs one conversational turn against a loaded session.
type TurnHandler interface {
	HandleTurn(ctx context.Context, session *store.Session, userText string, requester store.Requester) conversation.Reply
}

type IAssistantService interface {
	CreateSession(ctx context.Context, requester store.Requester) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, id string) (*dto.SessionResponse, error)
	ResetSession(ctx context.Context, id string) error
	Invoke(ctx context.Context, sessionID string, userText string, requester store.Requester) (*dto.InvokeResponse, error)
}

type AssistantServiceConfig struct {
	LockTimeout      time.Duration
	MaxMessageLength int
}

type assistantService struct {
	sessions contract.SessionRepository
	turns    TurnHandler
	cfg      AssistantServiceConfig
	logger   logger.ILogger
}

func NewAssistantService(sessions contract.SessionRepository, turns TurnHandler, cfg AssistantServiceConfig, log logger.ILogger) IAssistantService {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 30 * time.Second
	}
	return &assistantService{
		sessions: sessions,
		turns:    turns,
		cfg:      cfg,
		logger:   log,
	}
}

func (s *assistantService) CreateSession(ctx context.Context, requester store.Requester) (*dto.CreateSessionResponse, error) {
	now := time.Now()
	session := &store.Session{
		ID:        uuid.NewString(),
		UserID:    requester.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &dto.CreateSessionResponse{SessionId: session.ID, CreatedAt: session.CreatedAt}, nil
}

func (s *assistantService) GetSession(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, contract.ErrSessionNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	return &dto.SessionResponse{
		SessionId:     session.ID,
		PendingAction: toPendingDTO(session.PendingAction),
		LastQuery:     session.LastQuery,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}, nil
}

// ResetSession drops the session together with any pending action.
func (s *assistantService) ResetSession(ctx context.Context, id string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return s.sessions.Delete(ctx, id)
}

// Invoke is the single entry point for a user turn. The session lock is held
// from load to save so two turns on one session never interleave.
func (s *assistantService) Invoke(ctx context.Context, sessionID string, userText string, requester store.Requester) (*dto.InvokeResponse, error) {
	text := strings.TrimSpace(userText)
	if s.cfg.MaxMessageLength > 0 && utf8.RuneCountInString(text) > s.cfg.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidInput, s.cfg.MaxMessageLength)
	}

	requester = requester.Normalize()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, contract.ErrSessionNotFound) {
			return nil, fmt.Errorf("load session: %w", err)
		}
		now := time.Now()
		session = &store.Session{ID: sessionID, UserID: requester.ID, CreatedAt: now, UpdatedAt: now}
	}

	// A blank reply to a confirmation prompt is re-prompted, not rejected.
	if text == "" && !session.HasPending() {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	resolving := session.HasPending() && conversation.IsConfirmation(userText)
	if resolving {
		// Persist the cleared slot before any record is created, so a
		// failed save can never leave a confirmation to be replayed.
		cleared := *session
		cleared.PendingAction = nil
		cleared.UpdatedAt = time.Now()
		if err := s.sessions.Save(ctx, &cleared); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	reply := s.turns.HandleTurn(ctx, session, userText, requester)

	if text != "" {
		session.LastQuery = text
	}
	session.UpdatedAt = time.Now()
	// The turn already happened; persist its outcome even if the caller left.
	if err := s.sessions.Save(context.WithoutCancel(ctx), session); err != nil {
		s.logger.Error(logger.ModuleSession, "Failed to save session", map[string]interface{}{
			"session_id": sessionID,
			"kind":       string(reply.Kind),
			"error":      err.Error(),
		})
		// The stored session already has no pending action; the reply stands.
		if !resolving {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	s.logger.Info(logger.ModuleAssistant, "Turn completed", map[string]interface{}{
		"session_id": sessionID,
		"kind":       string(reply.Kind),
		"pending":    session.HasPending(),
	})

	return &dto.InvokeResponse{
		SessionId:     sessionID,
		Output:        reply.Output,
		Kind:          string(reply.Kind),
		PendingAction: toPendingDTO(session.PendingAction),
		Action:        reply.Action,
		Sources:       reply.Passages,
	}, nil
}

func (s *assistantService) lock(ctx context.Context, id string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockTimeout)
	defer cancel()

	unlock, err := s.sessions.Lock(lockCtx, id)
	if err != nil {
		if errors.Is(err, contract.ErrLockTimeout) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("lock session: %w", err)
	}
	return unlock, nil
}

func toPendingDTO(p *store.PendingAction) *dto.PendingActionDTO {
	if p == nil {
		return nil
	}
	return &dto.PendingActionDTO{
		Category:     string(p.Category),
		OriginalText: p.OriginalText,
		CreatedAt:    p.CreatedAt,
	}
}
