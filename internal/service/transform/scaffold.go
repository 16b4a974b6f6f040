package transform

import "github.com/everpath/mastery-api/internal/domain"

// Scaffold thresholds on mastery level. Lower mastery earns more support.
const (
	heavyBelow    = 0.3
	moderateBelow = 0.6
	lightBelow    = 0.85
)

// scaffoldLevelFor maps a mastery level to the support the learner needs.
func scaffoldLevelFor(masteryLevel float64) domain.ScaffoldLevel {
	switch {
	case masteryLevel < heavyBelow:
		return domain.ScaffoldHeavy
	case masteryLevel < moderateBelow:
		return domain.ScaffoldModerate
	case masteryLevel < lightBelow:
		return domain.ScaffoldLight
	default:
		return domain.ScaffoldNone
	}
}

// targetBloomLevel maps a mastery level to the Bloom level an assessment
// should probe. Growing mastery pushes assessments up the taxonomy.
func targetBloomLevel(masteryLevel float64) domain.BloomLevel {
	switch {
	case masteryLevel < 0.2:
		return domain.BloomRemember
	case masteryLevel < 0.45:
		return domain.BloomUnderstand
	case masteryLevel < 0.65:
		return domain.BloomApply
	case masteryLevel < 0.85:
		return domain.BloomAnalyze
	case masteryLevel < 0.95:
		return domain.BloomEvaluate
	default:
		return domain.BloomCreate
	}
}
