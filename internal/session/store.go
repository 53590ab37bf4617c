package session

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/factcheck/internal/model"
)

// Store keeps sessions in memory and expires idle ones
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore creates a session store
func NewStore(cfg model.SessionConfig) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &Store{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Get returns a live session and extends its lifetime
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	val, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := val.(*Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// Create starts a new idle session with a random ID
func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString())
	s.cache.Set(sess.ID, sess, s.ttl)
	return sess
}

// GetOrCreate returns the session for id, creating one when it is unknown or expired.
// created reports whether the caller must issue a new cookie.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

// Len returns the number of sessions, including expired ones not yet cleaned up
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
