package domain

import "errors"

// Concept-specific validation errors
var (
	// ErrConceptIDEmpty is returned when a concept ID is empty.
	ErrConceptIDEmpty = errors.New("concept ID cannot be empty")

	// ErrConceptDomainEmpty is returned when a concept's domain ID is empty.
	ErrConceptDomainEmpty = errors.New("concept domain ID cannot be empty")

	// ErrConceptNameEmpty is returned when a concept's name is empty.
	ErrConceptNameEmpty = errors.New("concept name cannot be empty")

	// ErrConceptDifficultyRange is returned when a concept's difficulty score
	// falls outside the normalized [0,1] range.
	ErrConceptDifficultyRange = errors.New("concept difficulty score must be in [0,1]")
)

// Concept is an atomic unit of knowledge extracted from domain content.
// Concepts are immutable within a single transform call; a later extraction
// may produce a concept with the same ID and different attributes, in which
// case the latest extraction is authoritative for that call only.
type Concept struct {
	ConceptID string `json:"concept_id"`
	DomainID  string `json:"domain_id"`
	Name      string `json:"name"`

	// Description is a brief explanation of the concept, used by the
	// pedagogical transformer as base content when no context is supplied.
	Description string `json:"description,omitempty"`

	// DifficultyScore is a continuous, domain-normalized complexity rating
	// in [0,1]. Adapters are responsible for the normalization.
	DifficultyScore float64 `json:"difficulty_score"`

	// RelatedConcepts holds IDs of semantically related concepts. The
	// relation need not be symmetric.
	RelatedConcepts []string `json:"related_concepts,omitempty"`

	// Examples and Analogies feed elaborative-encoding and Feynman
	// enhancement; adapters populate them when the domain provides them.
	Examples  []string `json:"examples,omitempty"`
	Analogies []string `json:"analogies,omitempty"`

	// Metadata carries free-form domain-specific attributes, such as the
	// source word for vocabulary concepts or sentence contexts.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks that the Concept has valid data.
func (c *Concept) Validate() error {
	if c.ConceptID == "" {
		return ErrConceptIDEmpty
	}
	if c.DomainID == "" {
		return ErrConceptDomainEmpty
	}
	if c.Name == "" {
		return ErrConceptNameEmpty
	}
	if c.DifficultyScore < 0 || c.DifficultyScore > 1 {
		return ErrConceptDifficultyRange
	}
	return nil
}
