package repository

import (
	"context"
	"sync"

	"exam-service/internal/models"
)

// MemoryStore keeps sessions in process memory. It is the default store
// for single-process deployments; sessions live until replaced by a new
// exam or deleted. Values are cloned on the way in and out so no caller
// shares slices with the stored session.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ExamSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.ExamSession)}
}

func (s *MemoryStore) Create(ctx context.Context, session *models.ExamSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return ErrSessionExists
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.ExamSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *MemoryStore) Replace(ctx context.Context, session *models.ExamSession, expectedIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.CurrentIndex != expectedIndex {
		return ErrIndexConflict
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}
