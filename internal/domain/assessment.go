package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Assessment-specific validation errors
var (
	// ErrAssessmentIDEmpty is returned when an assessment ID is nil.
	ErrAssessmentIDEmpty = errors.New("assessment ID cannot be empty")

	// ErrAssessmentConceptEmpty is returned when an assessment's concept ID is empty.
	ErrAssessmentConceptEmpty = errors.New("assessment concept ID cannot be empty")

	// ErrAssessmentBloomInvalid is returned when an assessment carries an
	// unknown Bloom level.
	ErrAssessmentBloomInvalid = errors.New("assessment bloom level is invalid")

	// ErrAssessmentTypeInvalid is returned when an assessment carries an
	// unknown assessment type.
	ErrAssessmentTypeInvalid = errors.New("assessment type is invalid")

	// ErrAssessmentQuestionEmpty is returned when an assessment has no question text.
	ErrAssessmentQuestionEmpty = errors.New("assessment question cannot be empty")
)

// AssessmentOption is a single option in a multiple-choice assessment.
type AssessmentOption struct {
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

// Assessment is a question or exercise generated for a concept at a specific
// Bloom level. Assessments are created per transform call and are not
// persisted by the engine.
type Assessment struct {
	AssessmentID uuid.UUID      `json:"assessment_id"`
	ConceptID    string         `json:"concept_id"`
	BloomLevel   BloomLevel     `json:"bloom_level"`
	Type         AssessmentType `json:"type"`

	Question string `json:"question"`
	Context  string `json:"context,omitempty"`

	// Options is populated for multiple-choice assessments.
	Options []AssessmentOption `json:"options,omitempty"`

	// Rubric holds grading criteria; ExpectedAnswer the reference answer
	// for objective types and a sample answer for free-response types.
	Rubric         string `json:"rubric,omitempty"`
	ExpectedAnswer string `json:"expected_answer,omitempty"`

	Hints []string `json:"hints,omitempty"`
}

// NewAssessment creates an Assessment with a fresh ID and validates it.
func NewAssessment(conceptID string, level BloomLevel, typ AssessmentType, question string) (*Assessment, error) {
	a := &Assessment{
		AssessmentID: uuid.New(),
		ConceptID:    conceptID,
		BloomLevel:   level,
		Type:         typ,
		Question:     question,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the Assessment has valid data.
func (a *Assessment) Validate() error {
	if a.AssessmentID == uuid.Nil {
		return ErrAssessmentIDEmpty
	}
	if a.ConceptID == "" {
		return ErrAssessmentConceptEmpty
	}
	if !a.BloomLevel.Valid() {
		return ErrAssessmentBloomInvalid
	}
	if !a.Type.Valid() {
		return ErrAssessmentTypeInvalid
	}
	if a.Question == "" {
		return ErrAssessmentQuestionEmpty
	}
	return nil
}

// CorrectOption returns the first correct option of a multiple-choice
// assessment, or nil if there is none.
func (a *Assessment) CorrectOption() *AssessmentOption {
	for i := range a.Options {
		if a.Options[i].IsCorrect {
			return &a.Options[i]
		}
	}
	return nil
}
