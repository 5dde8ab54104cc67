package memory

import (
	"ai-blueprint-be/pkg/store"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds live conversation state. Sessions exist only
// here: expiry or process restart discards them, which is the intended
// lifetime of a blueprint conversation.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	// Idle sessions expire after the TTL; expired entries are purged
	// every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
