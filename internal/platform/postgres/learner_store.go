package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/store"
)

// LearnerStore implements store.LearnerStore using PostgreSQL.
type LearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.LearnerStore = (*LearnerStore)(nil)

// NewLearnerStore creates a PostgreSQL-backed LearnerStore.
func NewLearnerStore(db store.DBTX, logger *slog.Logger) *LearnerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

// WithTx implements store.LearnerStore.WithTx.
func (s *LearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &LearnerStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.LearnerStore.Create.
func (s *LearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	if err := learner.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO learners (id, name, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		learner.ID, learner.Name, learner.Email, learner.HashedPassword,
		learner.CreatedAt, learner.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		s.logger.ErrorContext(ctx, "failed to create learner",
			slog.String("learner_id", learner.ID.String()),
			slog.Any("error", err))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.LearnerStore.GetByID.
func (s *LearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	query := `SELECT id, name, email, hashed_password, created_at, updated_at
		FROM learners WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.LearnerStore.GetByEmail.
func (s *LearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	query := `SELECT id, name, email, hashed_password, created_at, updated_at
		FROM learners WHERE email = $1`
	return s.getOne(ctx, query, email)
}

func (s *LearnerStore) getOne(ctx context.Context, query string, arg any) (*domain.Learner, error) {
	var l domain.Learner
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&l.ID, &l.Name, &l.Email, &l.HashedPassword, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearnerNotFound
		}
		return nil, MapError(err)
	}
	return &l, nil
}
