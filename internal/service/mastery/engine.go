// Package mastery implements the engine that owns all mastery state. Every
// write goes through RecordReview; everything else is a read.
package mastery

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/domain/sm2"
	"github.com/everpath/mastery-api/internal/platform/redis"
	"github.com/everpath/mastery-api/internal/store"
)

// lockStripes is the number of mutexes review writes are spread over.
// Reviews for the same (learner, domain, concept) always serialize;
// unrelated reviews almost never contend.
const lockStripes = 64

// Engine coordinates mastery reads and the single review write path.
type Engine struct {
	masteries store.MasteryStore
	scheduler sm2.Service
	cache     *redis.MasteryCache // optional
	logger    *slog.Logger

	locks [lockStripes]sync.Mutex
}

// NewEngine creates the mastery engine. The cache may be nil, in which case
// every read goes to the store.
func NewEngine(masteries store.MasteryStore, scheduler sm2.Service, cache *redis.MasteryCache, logger *slog.Logger) *Engine {
	if masteries == nil {
		panic("mastery store cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Engine{
		masteries: masteries,
		scheduler: scheduler,
		cache:     cache,
		logger:    logger.With(slog.String("component", "mastery_engine")),
	}
}

func (e *Engine) lockFor(learnerID uuid.UUID, domainID, conceptID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write(learnerID[:])
	_, _ = h.Write([]byte(domainID))
	_, _ = h.Write([]byte(conceptID))
	return &e.locks[h.Sum32()%lockStripes]
}

// GetMastery returns the learner's mastery record for a concept. A concept
// the learner has never reviewed yields a fresh default record, which is not
// persisted until the first review. Corrupt stored records are repaired on
// read.
func (e *Engine) GetMastery(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string) (*domain.ConceptMastery, error) {
	if e.cache != nil {
		if m, err := e.cache.Get(ctx, learnerID, domainID, conceptID); err == nil {
			return m, nil
		}
	}

	m, err := e.masteries.Get(ctx, learnerID, domainID, conceptID)
	if errors.Is(err, store.ErrMasteryNotFound) {
		return domain.NewConceptMastery(learnerID, domainID, conceptID, time.Now().UTC())
	}
	if err != nil {
		return nil, fmt.Errorf("loading mastery record: %w", err)
	}

	if validErr := m.Validate(); validErr != nil {
		e.logger.WarnContext(ctx, "repairing invalid mastery record",
			slog.String("learner_id", learnerID.String()),
			slog.String("domain_id", domainID),
			slog.String("concept_id", conceptID),
			slog.Any("error", validErr))
		m, err = m.Repair()
		if err != nil {
			return nil, fmt.Errorf("unrepairable mastery record: %w", err)
		}
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, m); err != nil {
			e.logger.WarnContext(ctx, "mastery cache write failed", slog.Any("error", err))
		}
	}
	return m, nil
}

// RecordReview applies one review and persists the advanced record. It is
// the only write path for mastery state; concurrent reviews of the same
// concept serialize on a striped lock, so each review sees its
// predecessor's output.
func (e *Engine) RecordReview(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string, quality int, now time.Time) (*domain.ConceptMastery, error) {
	mu := e.lockFor(learnerID, domainID, conceptID)
	mu.Lock()
	defer mu.Unlock()

	current, err := e.loadForWrite(ctx, learnerID, domainID, conceptID, now)
	if err != nil {
		return nil, err
	}

	next, err := e.scheduler.CalculateNextReview(current, quality, now)
	if err != nil {
		return nil, err
	}

	// A cancelled request must not write a half-committed review.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.masteries.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("persisting review: %w", err)
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, next); err != nil {
			e.logger.WarnContext(ctx, "mastery cache write failed", slog.Any("error", err))
		}
	}

	e.logger.InfoContext(ctx, "review recorded",
		slog.String("learner_id", learnerID.String()),
		slog.String("domain_id", domainID),
		slog.String("concept_id", conceptID),
		slog.Int("quality", quality),
		slog.Int("interval_days", next.IntervalDays),
		slog.Float64("mastery_level", next.MasteryLevel))
	return next, nil
}

// loadForWrite bypasses the cache: the write path must see the store's
// truth. Missing records start fresh; invalid ones are repaired.
func (e *Engine) loadForWrite(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string, now time.Time) (*domain.ConceptMastery, error) {
	m, err := e.masteries.Get(ctx, learnerID, domainID, conceptID)
	if errors.Is(err, store.ErrMasteryNotFound) {
		return domain.NewConceptMastery(learnerID, domainID, conceptID, now)
	}
	if err != nil {
		return nil, fmt.Errorf("loading mastery record: %w", err)
	}
	if validErr := m.Validate(); validErr != nil {
		m, err = m.Repair()
		if err != nil {
			return nil, fmt.Errorf("unrepairable mastery record: %w", err)
		}
	}
	return m, nil
}

// DueConcepts returns the learner's due records, most urgent first: earliest
// next-review date, then lowest mastery level. An empty domainID spans all
// domains.
func (e *Engine) DueConcepts(ctx context.Context, learnerID uuid.UUID, domainID string, asOf time.Time) ([]*domain.ConceptMastery, error) {
	due, err := e.masteries.ListDue(ctx, learnerID, domainID, asOf)
	if err != nil {
		return nil, fmt.Errorf("listing due concepts: %w", err)
	}
	return due, nil
}

// LoadProfile assembles the learner's full mastery profile grouped by
// domain.
func (e *Engine) LoadProfile(ctx context.Context, learner *domain.Learner) (*domain.LearnerProfile, error) {
	if learner == nil {
		return nil, errors.New("learner cannot be nil")
	}

	records, err := e.masteries.ListByLearner(ctx, learner.ID, "")
	if err != nil {
		return nil, fmt.Errorf("listing mastery records: %w", err)
	}

	profile := &domain.LearnerProfile{
		LearnerID: learner.ID,
		Name:      learner.Name,
		Mastery:   make(map[string]map[string]*domain.ConceptMastery),
	}
	for _, m := range records {
		byConcept, ok := profile.Mastery[m.DomainID]
		if !ok {
			byConcept = make(map[string]*domain.ConceptMastery)
			profile.Mastery[m.DomainID] = byConcept
		}
		byConcept[m.ConceptID] = m
	}
	return profile, nil
}
