// Package memory provides in-memory implementations of the store interfaces
// for tests and local development. They are safe for concurrent use but do
// not participate in transactions; WithTx returns the store itself.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/store"
)

type masteryKey struct {
	learnerID uuid.UUID
	domainID  string
	conceptID string
}

// MasteryStore is an in-memory store.MasteryStore.
type MasteryStore struct {
	mu      sync.RWMutex
	records map[masteryKey]*domain.ConceptMastery
}

var _ store.MasteryStore = (*MasteryStore)(nil)

// NewMasteryStore creates an empty in-memory MasteryStore.
func NewMasteryStore() *MasteryStore {
	return &MasteryStore{
		records: make(map[masteryKey]*domain.ConceptMastery),
	}
}

// Get implements store.MasteryStore.Get.
func (s *MasteryStore) Get(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string) (*domain.ConceptMastery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.records[masteryKey{learnerID, domainID, conceptID}]
	if !ok {
		return nil, store.ErrMasteryNotFound
	}
	cp := *m
	return &cp, nil
}

// Put implements store.MasteryStore.Put.
func (s *MasteryStore) Put(ctx context.Context, m *domain.ConceptMastery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.records[masteryKey{m.LearnerID, m.DomainID, m.ConceptID}] = &cp
	return nil
}

// ListByLearner implements store.MasteryStore.ListByLearner.
func (s *MasteryStore) ListByLearner(ctx context.Context, learnerID uuid.UUID, domainID string) ([]*domain.ConceptMastery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := s.collect(func(m *domain.ConceptMastery) bool {
		return m.LearnerID == learnerID && (domainID == "" || m.DomainID == domainID)
	})

	sort.Slice(records, func(i, j int) bool {
		if records[i].DomainID != records[j].DomainID {
			return records[i].DomainID < records[j].DomainID
		}
		return records[i].ConceptID < records[j].ConceptID
	})
	return records, nil
}

// ListDue implements store.MasteryStore.ListDue.
func (s *MasteryStore) ListDue(ctx context.Context, learnerID uuid.UUID, domainID string, asOf time.Time) ([]*domain.ConceptMastery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := s.collect(func(m *domain.ConceptMastery) bool {
		return m.LearnerID == learnerID &&
			(domainID == "" || m.DomainID == domainID) &&
			m.Due(asOf)
	})

	sort.Slice(records, func(i, j int) bool {
		if !records[i].NextReviewDate.Equal(records[j].NextReviewDate) {
			return records[i].NextReviewDate.Before(records[j].NextReviewDate)
		}
		return records[i].MasteryLevel < records[j].MasteryLevel
	})
	return records, nil
}

// WithTx implements store.MasteryStore.WithTx. The in-memory store has no
// transaction support.
func (s *MasteryStore) WithTx(_ *sql.Tx) store.MasteryStore {
	return s
}

func (s *MasteryStore) collect(keep func(*domain.ConceptMastery) bool) []*domain.ConceptMastery {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.ConceptMastery
	for _, m := range s.records {
		if keep(m) {
			cp := *m
			records = append(records, &cp)
		}
	}
	return records
}
