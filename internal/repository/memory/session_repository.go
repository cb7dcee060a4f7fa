package memory

import (
	"time"

	"specialist-match-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live conversation state in process memory.
// Expired conversations are simply dropped; the pipeline is stateless
// beyond this store.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Conversations idle for an hour are abandoned; purge sweep every 10 min
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(state *store.ConversationState) {
	r.cache.Set(state.SessionId, state, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionId string) (*store.ConversationState, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*store.ConversationState), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
