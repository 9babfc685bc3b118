// Package repository persists exam sessions. Stores only move whole
// session values; the state machine itself lives on the session.
package repository

import (
	"context"
	"errors"

	"exam-service/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrIndexConflict means another writer advanced the session between
	// our read and our write. The caller re-reads and treats its own
	// submission as the idempotent duplicate.
	ErrIndexConflict = errors.New("session advanced by concurrent submission")

	// ErrSessionExists rejects creating a session under an id already in
	// use.
	ErrSessionExists = errors.New("session id already exists")
)

// SessionStore is the persistence contract for exam sessions. Replace
// is a compare-and-swap on the progress index: it only applies when the
// stored session still sits at expectedIndex, which makes submitAnswer
// an atomic read-modify-write even with the store shared across
// processes.
type SessionStore interface {
	Create(ctx context.Context, session *models.ExamSession) error
	Get(ctx context.Context, id string) (*models.ExamSession, error)
	Replace(ctx context.Context, session *models.ExamSession, expectedIndex int) error
	Delete(ctx context.Context, id string) error
}
