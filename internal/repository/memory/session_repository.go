package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"enterprise-assistant-be/internal/repository/contract"
	"enterprise-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type sessionLock struct {
	ch   chan struct{}
	refs int
}

type SessionRepository struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[string]*sessionLock
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions for ttl after their last save and
// purges expired ones every cleanup interval.
func NewSessionRepository(ttl, cleanup time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
		locks: make(map[string]*sessionLock),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, clone(session), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*store.Session, error) {
	if x, found := r.cache.Get(id); found {
		return clone(x.(*store.Session)), nil
	}
	return nil, contract.ErrSessionNotFound
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) Lock(ctx context.Context, id string) (func(), error) {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sessionLock{ch: make(chan struct{}, 1)}
		r.locks[id] = l
	}
	l.refs++
	r.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		r.release(id, l)
		return nil, fmt.Errorf("%w: %v", contract.ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			r.release(id, l)
		})
	}, nil
}

func (r *SessionRepository) release(id string, l *sessionLock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, id)
	}
}

// clone keeps callers from mutating cached state outside Save.
func clone(s *store.Session) *store.Session {
	c := *s
	if s.PendingAction != nil {
		p := *s.PendingAction
		c.PendingAction = &p
	}
	return &c
}
