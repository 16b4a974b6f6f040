package api

import (
	"time"

	"github.com/everpath/mastery-api/internal/domain"
)

// LearnerResponse is the public view of a learner account.
type LearnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries a signed access token alongside the learner.
type AuthResponse struct {
	Token   string          `json:"token"`
	Learner LearnerResponse `json:"learner"`
}

// MasteryResponse is the public view of one mastery record.
type MasteryResponse struct {
	DomainID        string    `json:"domain_id"`
	ConceptID       string    `json:"concept_id"`
	EaseFactor      float64   `json:"ease_factor"`
	RepetitionCount int       `json:"repetition_count"`
	IntervalDays    int       `json:"interval_days"`
	LastReviewDate  time.Time `json:"last_review_date,omitempty"`
	NextReviewDate  time.Time `json:"next_review_date"`
	MasteryLevel    float64   `json:"mastery_level"`
	Stage           string    `json:"stage"`
	ReviewCount     int       `json:"review_count"`
}

func learnerToResponse(l *domain.Learner) LearnerResponse {
	return LearnerResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Email:     l.Email,
		CreatedAt: l.CreatedAt,
	}
}

func masteryToResponse(m *domain.ConceptMastery) MasteryResponse {
	return MasteryResponse{
		DomainID:        m.DomainID,
		ConceptID:       m.ConceptID,
		EaseFactor:      m.EaseFactor,
		RepetitionCount: m.RepetitionCount,
		IntervalDays:    m.IntervalDays,
		LastReviewDate:  m.LastReviewDate,
		NextReviewDate:  m.NextReviewDate,
		MasteryLevel:    m.MasteryLevel,
		Stage:           string(m.Stage()),
		ReviewCount:     len(m.ReviewHistory),
	}
}

func masteriesToResponses(records []*domain.ConceptMastery) []MasteryResponse {
	out := make([]MasteryResponse, 0, len(records))
	for _, m := range records {
		out = append(out, masteryToResponse(m))
	}
	return out
}
