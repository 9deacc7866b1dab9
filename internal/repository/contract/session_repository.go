package contract

import (
	"context"
	"errors"

	"enterprise-assistant-be/pkg/store"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLockTimeout     = errors.New("session is busy")
)

// SessionRepository keeps conversation state keyed by session id.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*store.Session, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, id string) error
	// Lock serialises turns for one session. The returned func releases it.
	Lock(ctx context.Context, id string) (func(), error)
}
