package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
)

// LearnerStore defines the interface for learner identity persistence.
type LearnerStore interface {
	// Create saves a new learner. Returns ErrEmailExists if the email is
	// already registered, and ErrInvalidEntity wrapping the validation
	// error for invalid data.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by ID. Returns ErrLearnerNotFound if the
	// learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// GetByEmail retrieves a learner by email. Returns ErrLearnerNotFound
	// if no learner has that email.
	GetByEmail(ctx context.Context, email string) (*domain.Learner, error)

	// WithTx returns a LearnerStore that runs its operations inside the
	// provided transaction.
	WithTx(tx *sql.Tx) LearnerStore
}
