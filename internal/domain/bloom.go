package domain

// BloomLevel is one of the six cognitive-demand tiers of Bloom's taxonomy,
// used to grade the difficulty of an assessment.
type BloomLevel string

// Bloom levels, ordered from lowest to highest cognitive demand.
const (
	BloomRemember   BloomLevel = "remember"
	BloomUnderstand BloomLevel = "understand"
	BloomApply      BloomLevel = "apply"
	BloomAnalyze    BloomLevel = "analyze"
	BloomEvaluate   BloomLevel = "evaluate"
	BloomCreate     BloomLevel = "create"
)

// bloomOrder maps each level to its rank for comparisons.
var bloomOrder = map[BloomLevel]int{
	BloomRemember:   0,
	BloomUnderstand: 1,
	BloomApply:      2,
	BloomAnalyze:    3,
	BloomEvaluate:   4,
	BloomCreate:     5,
}

// Valid reports whether the level is one of the six known Bloom levels.
func (b BloomLevel) Valid() bool {
	_, ok := bloomOrder[b]
	return ok
}

// Rank returns the position of the level in the taxonomy, 0 (Remember)
// through 5 (Create). Unknown levels rank as -1.
func (b BloomLevel) Rank() int {
	if r, ok := bloomOrder[b]; ok {
		return r
	}
	return -1
}

// AssessmentType identifies the format of an assessment question.
type AssessmentType string

// Supported assessment types.
const (
	AssessmentMultipleChoice AssessmentType = "multiple_choice"
	AssessmentFreeResponse   AssessmentType = "free_response"
	AssessmentFillInBlank    AssessmentType = "fill_in_blank"
	AssessmentCodeExercise   AssessmentType = "code_exercise"
)

// Valid reports whether the type is one of the supported assessment types.
func (t AssessmentType) Valid() bool {
	switch t {
	case AssessmentMultipleChoice, AssessmentFreeResponse, AssessmentFillInBlank, AssessmentCodeExercise:
		return true
	default:
		return false
	}
}

// Objective reports whether the type can be graded locally against a rubric
// without delegating to the external scoring service.
func (t AssessmentType) Objective() bool {
	return t == AssessmentMultipleChoice || t == AssessmentFillInBlank
}
