package bancho

import (
	"errors"
	"sync"

	"github.com/onecho-dev/onecho/internal/model"
)

// Registry errors.
var (
	ErrDuplicateSession = errors.New("user already has a live session")
	ErrNameTaken        = errors.New("username taken by a different user")
)

// Registry tracks every live session under three synchronised indexes:
// token, user id and safe username. At most one live session exists
// per user id; safe usernames are unique across users.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	byToken  map[string]*Session
	byUserID map[int32]*Session
	byName   map[string]*Session // key: username_safe
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		byToken:  make(map[string]*Session, 256),
		byUserID: make(map[int32]*Session, 256),
		byName:   make(map[string]*Session, 256),
	}
}

// Register atomically inserts the session into all three indexes.
// Returns ErrDuplicateSession when the user id already has a live
// session and ErrNameTaken when the safe username belongs to a
// different user id. The caller evicts the prior session first.
func (r *Registry) Register(s *Session) error {
	id := s.ID()
	safe := s.UsernameSafe()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserID[id]; ok {
		return ErrDuplicateSession
	}
	if prev, ok := r.byName[safe]; ok && prev.ID() != id {
		return ErrNameTaken
	}

	r.byToken[s.Token] = s
	r.byUserID[id] = s
	r.byName[safe] = s
	return nil
}

// Unregister removes the session from all three indexes. Removing a
// session that is not registered is a no-op.
func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Only drop the indexes if they still point at this session;
	// a newer login for the same user may have replaced them.
	if cur, ok := r.byToken[s.Token]; ok && cur == s {
		delete(r.byToken, s.Token)
	}
	if cur, ok := r.byUserID[s.ID()]; ok && cur == s {
		delete(r.byUserID, s.ID())
	}
	if cur, ok := r.byName[s.UsernameSafe()]; ok && cur == s {
		delete(r.byName, s.UsernameSafe())
	}
}

// ByToken returns the session bound to token, or nil.
func (r *Registry) ByToken(token string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byToken[token]
}

// ByUserID returns the live session of a user id, or nil.
func (r *Registry) ByUserID(id int32) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUserID[id]
}

// ByName returns the live session of a display or safe username,
// or nil.
func (r *Registry) ByName(username string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[model.MakeSafe(username)]
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byToken)
}

// Sessions returns a snapshot of all live sessions.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.byToken))
	for _, s := range r.byToken {
		out = append(out, s)
	}
	return out
}

// ForEach calls fn for every live session. If fn returns false,
// iteration stops.
func (r *Registry) ForEach(fn func(*Session) bool) {
	for _, s := range r.Sessions() {
		if !fn(s) {
			return
		}
	}
}

// Broadcast appends data to the outbound queue of every registered
// non-restricted session whose user id is not in exclude.
func (r *Registry) Broadcast(data []byte, exclude map[int32]struct{}) {
	for _, s := range r.Sessions() {
		if s.Restricted() {
			continue
		}
		if _, skip := exclude[s.ID()]; skip {
			continue
		}
		s.Enqueue(data)
	}
}
