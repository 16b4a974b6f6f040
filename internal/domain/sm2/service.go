package sm2

import (
	"errors"
	"time"

	"github.com/everpath/mastery-api/internal/domain"
)

// Common errors
var (
	ErrNilMastery     = errors.New("concept mastery cannot be nil")
	ErrInvalidQuality = errors.New("review quality must be between 0 and 5")
	ErrInvalidDays    = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling operations.
type Service interface {
	// CalculateNextReview computes a new mastery record from a review quality.
	// The input record is never modified.
	CalculateNextReview(
		m *domain.ConceptMastery,
		quality int,
		now time.Time,
	) (*domain.ConceptMastery, error)

	// PostponeReview pushes the next review date forward by a number of days
	// without recording a review.
	PostponeReview(
		m *domain.ConceptMastery,
		days int,
		now time.Time,
	) (*domain.ConceptMastery, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	m *domain.ConceptMastery,
	quality int,
	now time.Time,
) (*domain.ConceptMastery, error) {
	if m == nil {
		return nil, ErrNilMastery
	}

	if quality < MinQuality || quality > MaxQuality {
		return nil, ErrInvalidQuality
	}

	return calculateNextStats(m, quality, now, s.params), nil
}

// PostponeReview implements the Service interface.
func (s *defaultService) PostponeReview(
	m *domain.ConceptMastery,
	days int,
	now time.Time,
) (*domain.ConceptMastery, error) {
	if m == nil {
		return nil, ErrNilMastery
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *m
	next.NextReviewDate = m.NextReviewDate.AddDate(0, 0, days)
	next.UpdatedAt = now

	return &next, nil
}
