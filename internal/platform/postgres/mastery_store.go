package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/store"
)

// MasteryStore implements store.MasteryStore using PostgreSQL. Review history
// is stored as a JSONB column alongside the scheduling fields.
type MasteryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.MasteryStore = (*MasteryStore)(nil)

// NewMasteryStore creates a PostgreSQL-backed MasteryStore. The database
// connection is initialized and managed by the caller.
func NewMasteryStore(db store.DBTX, logger *slog.Logger) *MasteryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &MasteryStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_store")),
	}
}

// WithTx implements store.MasteryStore.WithTx.
func (s *MasteryStore) WithTx(tx *sql.Tx) store.MasteryStore {
	return &MasteryStore{
		db:     tx,
		logger: s.logger,
	}
}

const masteryColumns = `learner_id, domain_id, concept_id, ease_factor,
	repetition_count, interval_days, last_review_date, next_review_date,
	mastery_level, review_history, created_at, updated_at`

// Get implements store.MasteryStore.Get.
func (s *MasteryStore) Get(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string) (*domain.ConceptMastery, error) {
	query := `SELECT ` + masteryColumns + `
		FROM concept_mastery
		WHERE learner_id = $1 AND domain_id = $2 AND concept_id = $3`

	m, err := scanMastery(s.db.QueryRowContext(ctx, query, learnerID, domainID, conceptID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMasteryNotFound
		}
		return nil, MapError(err)
	}
	return m, nil
}

// Put implements store.MasteryStore.Put. The record is validated and then
// upserted on its (learner, domain, concept) key.
func (s *MasteryStore) Put(ctx context.Context, m *domain.ConceptMastery) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	history, err := json.Marshal(m.ReviewHistory)
	if err != nil {
		return fmt.Errorf("marshaling review history: %w", err)
	}

	query := `INSERT INTO concept_mastery (` + masteryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (learner_id, domain_id, concept_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			repetition_count = EXCLUDED.repetition_count,
			interval_days = EXCLUDED.interval_days,
			last_review_date = EXCLUDED.last_review_date,
			next_review_date = EXCLUDED.next_review_date,
			mastery_level = EXCLUDED.mastery_level,
			review_history = EXCLUDED.review_history,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		m.LearnerID, m.DomainID, m.ConceptID,
		m.EaseFactor, m.RepetitionCount, m.IntervalDays,
		nullableTime(m.LastReviewDate), m.NextReviewDate,
		m.MasteryLevel, history, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert mastery record",
			slog.String("learner_id", m.LearnerID.String()),
			slog.String("domain_id", m.DomainID),
			slog.String("concept_id", m.ConceptID),
			slog.Any("error", err))
		return MapError(err)
	}
	return nil
}

// ListByLearner implements store.MasteryStore.ListByLearner.
func (s *MasteryStore) ListByLearner(ctx context.Context, learnerID uuid.UUID, domainID string) ([]*domain.ConceptMastery, error) {
	query := `SELECT ` + masteryColumns + `
		FROM concept_mastery
		WHERE learner_id = $1 AND ($2 = '' OR domain_id = $2)
		ORDER BY domain_id, concept_id`

	rows, err := s.db.QueryContext(ctx, query, learnerID, domainID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectMastery(rows)
}

// ListDue implements store.MasteryStore.ListDue.
func (s *MasteryStore) ListDue(ctx context.Context, learnerID uuid.UUID, domainID string, asOf time.Time) ([]*domain.ConceptMastery, error) {
	query := `SELECT ` + masteryColumns + `
		FROM concept_mastery
		WHERE learner_id = $1 AND ($2 = '' OR domain_id = $2) AND next_review_date <= $3
		ORDER BY next_review_date, mastery_level`

	rows, err := s.db.QueryContext(ctx, query, learnerID, domainID, asOf)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectMastery(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMastery(row rowScanner) (*domain.ConceptMastery, error) {
	var (
		m          domain.ConceptMastery
		lastReview sql.NullTime
		history    []byte
	)

	err := row.Scan(
		&m.LearnerID, &m.DomainID, &m.ConceptID,
		&m.EaseFactor, &m.RepetitionCount, &m.IntervalDays,
		&lastReview, &m.NextReviewDate,
		&m.MasteryLevel, &history, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReview.Valid {
		m.LastReviewDate = lastReview.Time
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &m.ReviewHistory); err != nil {
			return nil, fmt.Errorf("unmarshaling review history: %w", err)
		}
	}
	return &m, nil
}

func collectMastery(rows *sql.Rows) ([]*domain.ConceptMastery, error) {
	var records []*domain.ConceptMastery
	for rows.Next() {
		m, err := scanMastery(rows)
		if err != nil {
			return nil, MapError(err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return records, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
