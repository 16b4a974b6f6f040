package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ConceptMastery
var (
	ErrEmptyMasteryLearnerID = errors.New("concept mastery learner ID cannot be empty")
	ErrEmptyMasteryDomainID  = errors.New("concept mastery domain ID cannot be empty")
	ErrEmptyMasteryConceptID = errors.New("concept mastery concept ID cannot be empty")

	// ErrInvalidMasteryState indicates the record violates its invariants
	// (ease factor below the floor, negative interval or repetition count,
	// mastery level outside [0,1], or a next-review date before the last
	// review). The scheduler never produces such a record; on read it is
	// repaired rather than propagated.
	ErrInvalidMasteryState = errors.New("invalid mastery state")
)

// Scheduling floor and defaults shared by the scheduler and repair logic.
const (
	// MinEaseFactor is the SM-2 floor below which the ease factor never drops.
	MinEaseFactor = 1.3

	// DefaultEaseFactor is the starting ease factor for a fresh record.
	DefaultEaseFactor = 2.5
)

// MasteryStage is the coarse position of a record in the learning lifecycle.
type MasteryStage string

// Mastery stages. There is no terminal stage: reviews continue indefinitely,
// and any failed review moves the record back to Learning.
const (
	StageNew       MasteryStage = "new"
	StageLearning  MasteryStage = "learning"
	StageReviewing MasteryStage = "reviewing"
	StageMastered  MasteryStage = "mastered"
)

// Thresholds for the Mastered stage.
const (
	masteredLevelThreshold    = 0.85
	masteredIntervalThreshold = 21 // days
)

// ReviewRecord is one entry of a mastery record's append-only review history.
type ReviewRecord struct {
	ReviewedAt time.Time `json:"reviewed_at"`
	Quality    int       `json:"quality"`
}

// ConceptMastery tracks a learner's spaced-repetition state for one concept.
// It is keyed by (learner, domain, concept) and owned exclusively by the
// mastery engine: all transitions go through the scheduler, which returns a
// new value rather than mutating in place.
type ConceptMastery struct {
	LearnerID uuid.UUID `json:"learner_id"`
	DomainID  string    `json:"domain_id"`
	ConceptID string    `json:"concept_id"`

	EaseFactor      float64 `json:"ease_factor"`      // ≥ 1.3, default 2.5
	RepetitionCount int     `json:"repetition_count"` // consecutive successful reviews
	IntervalDays    int     `json:"interval_days"`    // current interval in days

	LastReviewDate time.Time `json:"last_review_date"` // zero until first review
	NextReviewDate time.Time `json:"next_review_date"`

	// MasteryLevel is derived from the ease factor and repetition count by
	// the scheduler; it is stored so due-queue ordering and scaffolding do
	// not need to recompute it.
	MasteryLevel float64 `json:"mastery_level"`

	// ReviewHistory is ordered and append-only.
	ReviewHistory []ReviewRecord `json:"review_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConceptMastery creates a fresh record for a concept the learner has not
// reviewed before: due immediately, default ease factor, zero interval.
func NewConceptMastery(learnerID uuid.UUID, domainID, conceptID string, now time.Time) (*ConceptMastery, error) {
	m := &ConceptMastery{
		LearnerID:       learnerID,
		DomainID:        domainID,
		ConceptID:       conceptID,
		EaseFactor:      DefaultEaseFactor,
		RepetitionCount: 0,
		IntervalDays:    0,
		NextReviewDate:  now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks identity fields and the scheduling invariants.
func (m *ConceptMastery) Validate() error {
	if m.LearnerID == uuid.Nil {
		return ErrEmptyMasteryLearnerID
	}
	if m.DomainID == "" {
		return ErrEmptyMasteryDomainID
	}
	if m.ConceptID == "" {
		return ErrEmptyMasteryConceptID
	}
	if m.EaseFactor < MinEaseFactor {
		return ErrInvalidMasteryState
	}
	if m.RepetitionCount < 0 || m.IntervalDays < 0 {
		return ErrInvalidMasteryState
	}
	if m.RepetitionCount == 0 && m.IntervalDays > 1 {
		return ErrInvalidMasteryState
	}
	if m.MasteryLevel < 0 || m.MasteryLevel > 1 {
		return ErrInvalidMasteryState
	}
	if !m.LastReviewDate.IsZero() && m.NextReviewDate.Before(m.LastReviewDate) {
		return ErrInvalidMasteryState
	}
	return nil
}

// Repair returns a copy of the record with any invariant violations clamped
// to the nearest valid value. Identity fields are never altered; a record
// with broken identity cannot be repaired and is returned unchanged along
// with the validation error.
func (m *ConceptMastery) Repair() (*ConceptMastery, error) {
	if m.LearnerID == uuid.Nil || m.DomainID == "" || m.ConceptID == "" {
		return m, m.Validate()
	}

	r := *m
	if r.EaseFactor < MinEaseFactor {
		r.EaseFactor = DefaultEaseFactor
	}
	if r.RepetitionCount < 0 {
		r.RepetitionCount = 0
	}
	if r.IntervalDays < 0 {
		r.IntervalDays = 0
	}
	if r.RepetitionCount == 0 && r.IntervalDays > 1 {
		r.IntervalDays = 1
	}
	if r.MasteryLevel < 0 {
		r.MasteryLevel = 0
	}
	if r.MasteryLevel > 1 {
		r.MasteryLevel = 1
	}
	if !r.LastReviewDate.IsZero() && r.NextReviewDate.Before(r.LastReviewDate) {
		r.NextReviewDate = r.LastReviewDate
	}
	return &r, nil
}

// Stage returns the record's position in the learning lifecycle.
func (m *ConceptMastery) Stage() MasteryStage {
	if m.RepetitionCount == 0 && len(m.ReviewHistory) == 0 {
		return StageNew
	}
	if m.MasteryLevel >= masteredLevelThreshold && m.IntervalDays >= masteredIntervalThreshold {
		return StageMastered
	}
	if m.RepetitionCount >= 2 {
		return StageReviewing
	}
	return StageLearning
}

// Due reports whether the concept is due for review as of the given date.
func (m *ConceptMastery) Due(asOf time.Time) bool {
	return !m.NextReviewDate.After(asOf)
}
