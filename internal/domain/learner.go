package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Learner-specific validation errors
var (
	ErrLearnerIDEmpty       = errors.New("learner ID cannot be empty")
	ErrLearnerNameEmpty     = errors.New("learner name cannot be empty")
	ErrLearnerEmailInvalid  = errors.New("learner email is invalid")
	ErrLearnerPasswordEmpty = errors.New("learner hashed password cannot be empty")
)

// Learner is the identity record for a person studying through the engine.
// The HashedPassword is managed by the auth service; it is never exposed
// through the API layer.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLearner creates a Learner with a fresh ID and validates it. The
// password must already be hashed by the caller.
func NewLearner(name, email, hashedPassword string) (*Learner, error) {
	now := time.Now().UTC()
	l := &Learner{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks that the Learner has valid data.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLearnerIDEmpty
	}
	if l.Name == "" {
		return ErrLearnerNameEmpty
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return ErrLearnerEmailInvalid
	}
	if l.HashedPassword == "" {
		return ErrLearnerPasswordEmpty
	}
	return nil
}

// LearnerProfile is a read-only view over the mastery engine's storage: the
// learner identity plus every mastery record grouped by domain. It is
// assembled on demand and holds no state of its own.
type LearnerProfile struct {
	LearnerID uuid.UUID `json:"learner_id"`
	Name      string    `json:"name"`

	// Mastery maps domain ID to concept ID to the mastery record.
	Mastery map[string]map[string]*ConceptMastery `json:"mastery"`
}

// Get returns the mastery record for (domainID, conceptID), or nil if the
// learner has never encountered the concept.
func (p *LearnerProfile) Get(domainID, conceptID string) *ConceptMastery {
	byConcept, ok := p.Mastery[domainID]
	if !ok {
		return nil
	}
	return byConcept[conceptID]
}

// DomainAverage returns the mean mastery level across all concepts the
// learner has encountered in a domain, or 0 if there are none.
func (p *LearnerProfile) DomainAverage(domainID string) float64 {
	byConcept := p.Mastery[domainID]
	if len(byConcept) == 0 {
		return 0
	}
	var sum float64
	for _, m := range byConcept {
		sum += m.MasteryLevel
	}
	return sum / float64(len(byConcept))
}
