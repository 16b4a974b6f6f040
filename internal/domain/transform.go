package domain

// ScaffoldLevel is the intensity of supportive annotation added to content,
// inversely related to mastery.
type ScaffoldLevel string

// Scaffold levels from least to most intensive.
const (
	ScaffoldNone     ScaffoldLevel = "none"
	ScaffoldLight    ScaffoldLevel = "light"
	ScaffoldModerate ScaffoldLevel = "moderate"
	ScaffoldHeavy    ScaffoldLevel = "heavy"
)

var scaffoldIntensity = map[ScaffoldLevel]int{
	ScaffoldNone:     0,
	ScaffoldLight:    1,
	ScaffoldModerate: 2,
	ScaffoldHeavy:    3,
}

// Valid reports whether the level is one of the four known scaffold levels.
func (s ScaffoldLevel) Valid() bool {
	_, ok := scaffoldIntensity[s]
	return ok
}

// MoreIntensiveThan reports whether s provides more support than other.
func (s ScaffoldLevel) MoreIntensiveThan(other ScaffoldLevel) bool {
	return scaffoldIntensity[s] > scaffoldIntensity[other]
}

// TransformConfig controls a single transform call.
type TransformConfig struct {
	// IncludeAssessments controls whether assessments are generated.
	IncludeAssessments bool `json:"include_assessments"`

	// MaxConcepts caps the number of extracted concepts processed,
	// preserving extraction order. Zero means no cap.
	MaxConcepts int `json:"max_concepts,omitempty"`

	// ScaffoldLevelOverride forces a scaffold level instead of deriving it
	// from mastery. Empty means derive.
	ScaffoldLevelOverride ScaffoldLevel `json:"scaffold_level_override,omitempty"`
}

// DefaultTransformConfig returns the config used when the caller passes the
// zero value: assessments on, no concept cap, derived scaffold level.
func DefaultTransformConfig() TransformConfig {
	return TransformConfig{IncludeAssessments: true}
}

// SkippedConcept records a per-concept assessment failure that was isolated
// rather than aborting the transform.
type SkippedConcept struct {
	ConceptID string `json:"concept_id"`
	Reason    string `json:"reason"`
}

// TransformResult is the value object returned by a transform call. It is
// freshly constructed per call and owned by the caller.
type TransformResult struct {
	// ConceptsFound lists the processed concepts in extraction order.
	ConceptsFound []Concept `json:"concepts_found"`

	// ScaffoldLevel is the most intensive level among all included concepts.
	ScaffoldLevel ScaffoldLevel `json:"scaffold_level"`

	// Assessments holds the generated assessments in concept order.
	Assessments []Assessment `json:"assessments"`

	// TransformedContent is the original content with scaffolding markers
	// applied at concept occurrences.
	TransformedContent string `json:"transformed_content"`

	// Skipped aggregates per-concept assessment failures.
	Skipped []SkippedConcept `json:"skipped,omitempty"`
}
