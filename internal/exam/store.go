package exam

import (
	"sync"

	"github.com/google/uuid"
)

// session couples one exam with its own lock so that concurrent operations on
// different exams never contend. All state-changing calls hold the write lock
// for their full duration; status queries take the read lock.
type session struct {
	mu   sync.RWMutex
	exam *Exam
}

// Store holds all live exam sessions keyed by exam id. It is injected into
// the service at construction; there is no package-level singleton. The
// store-level lock only guards the map itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*session),
	}
}

func (s *Store) add(e *Exam) *session {
	sess := &session{exam: e}
	s.mu.Lock()
	s.sessions[e.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) get(id uuid.UUID) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// IDs returns the ids of all tracked exams.
func (s *Store) IDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len reports how many exams are tracked.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
