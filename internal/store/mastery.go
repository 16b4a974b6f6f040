package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
)

// MasteryStore defines the interface for concept mastery persistence. The
// mastery engine is the only writer; everything else reads.
type MasteryStore interface {
	// Get retrieves the mastery record for a (learner, domain, concept) key.
	// Returns ErrMasteryNotFound if the learner has never reviewed the
	// concept.
	Get(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string) (*domain.ConceptMastery, error)

	// Put inserts or replaces the mastery record keyed by its
	// (LearnerID, DomainID, ConceptID). It handles domain validation
	// internally and returns ErrInvalidEntity wrapping the validation error
	// for an invalid record.
	Put(ctx context.Context, m *domain.ConceptMastery) error

	// ListByLearner returns every mastery record for a learner, optionally
	// restricted to one domain when domainID is non-empty. Records are
	// ordered by domain ID then concept ID.
	ListByLearner(ctx context.Context, learnerID uuid.UUID, domainID string) ([]*domain.ConceptMastery, error)

	// ListDue returns the learner's records due for review as of the given
	// time, optionally restricted to one domain, ordered by next review date
	// ascending with mastery level ascending as the tiebreaker.
	ListDue(ctx context.Context, learnerID uuid.UUID, domainID string, asOf time.Time) ([]*domain.ConceptMastery, error)

	// WithTx returns a MasteryStore that runs its operations inside the
	// provided transaction. The transaction is created and managed by the
	// caller.
	WithTx(tx *sql.Tx) MasteryStore
}
