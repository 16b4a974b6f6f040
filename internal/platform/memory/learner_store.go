package memory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/store"
)

// LearnerStore is an in-memory store.LearnerStore.
type LearnerStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.Learner
	byEmail map[string]uuid.UUID
}

var _ store.LearnerStore = (*LearnerStore)(nil)

// NewLearnerStore creates an empty in-memory LearnerStore.
func NewLearnerStore() *LearnerStore {
	return &LearnerStore{
		byID:    make(map[uuid.UUID]*domain.Learner),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create implements store.LearnerStore.Create.
func (s *LearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := learner.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(learner.Email)
	if _, exists := s.byEmail[email]; exists {
		return store.ErrEmailExists
	}

	cp := *learner
	s.byID[learner.ID] = &cp
	s.byEmail[email] = learner.ID
	return nil
}

// GetByID implements store.LearnerStore.GetByID.
func (s *LearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byID[id]
	if !ok {
		return nil, store.ErrLearnerNotFound
	}
	cp := *l
	return &cp, nil
}

// GetByEmail implements store.LearnerStore.GetByEmail.
func (s *LearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrLearnerNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

// WithTx implements store.LearnerStore.WithTx. The in-memory store has no
// transaction support.
func (s *LearnerStore) WithTx(_ *sql.Tx) store.LearnerStore {
	return s
}
