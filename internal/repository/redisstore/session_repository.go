package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"enterprise-assistant-be/internal/repository/contract"
	"enterprise-assistant-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "assistant:session:"
	lockKeyPrefix    = "assistant:lock:"
)

// unlockScript deletes the lock only if we still own it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionRepository stores sessions as JSON with a sliding TTL so several
// API instances share conversation state.
type SessionRepository struct {
	rdb       redis.UniversalClient
	ttl       time.Duration
	lockTTL   time.Duration
	lockRetry time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository; lockTTL must exceed the longest turn.
func NewSessionRepository(rdb redis.UniversalClient, ttl, lockTTL time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &SessionRepository{
		rdb:       rdb,
		ttl:       ttl,
		lockTTL:   lockTTL,
		lockRetry: 25 * time.Millisecond,
	}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contract.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var s store.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+session.ID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// Lock polls SET NX until it wins or ctx ends.
func (r *SessionRepository) Lock(ctx context.Context, id string) (func(), error) {
	key := lockKeyPrefix + id
	token := uuid.NewString()

	ticker := time.NewTicker(r.lockRetry)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.lockTTL).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("redis lock: %w", err)
		}
		if ok {
			return func() {
				// Release even if the turn's context is already cancelled.
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				unlockScript.Run(releaseCtx, r.rdb, []string{key}, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", contract.ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
