package sm2

import (
	"math"
	"time"

	"github.com/everpath/mastery-api/internal/domain"
)

// easeNormSpan maps the ease factor range [MinEaseFactor, MinEaseFactor+span]
// onto [0,1] for the mastery level blend. An ease factor of 3.0 or above
// saturates the ease component.
const easeNormSpan = 1.7

// calculateNewEaseFactor determines the new ease factor after a review.
//
// The ease factor represents how easy the concept is for this learner; higher
// values make intervals grow faster. The SM-2 update is
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// so a perfect recall (q=5) adds 0.1, a hesitant one (q=4) leaves the ease
// factor unchanged, and anything below subtracts. The ease factor is updated
// on every review, including failed ones, and never drops below
// params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the interval in days until the next review.
//
// The repetition count passed in is the count AFTER the current review has
// been applied. Failed reviews (quality below PassingQuality) always
// reschedule for the next day. The first two successful repetitions use the
// fixed intervals from params; from the third on, the previous interval is
// multiplied by the new ease factor and rounded to the nearest day.
func calculateNewInterval(
	previousInterval int,
	repetitionCount int,
	easeFactor float64,
	quality int,
	params *Params,
) int {
	if quality < PassingQuality {
		return params.FirstInterval
	}

	switch repetitionCount {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(previousInterval) * easeFactor))
	}
}

// calculateMasteryLevel derives the stored mastery level from the repetition
// count and ease factor.
//
// The level blends a saturating repetition component, 1 - 2^-rep, which
// crosses 0.9 around the fifth consecutive successful review, with a
// normalized ease component. Both components are in [0,1], so the weighted
// sum is too. A failed review resets the repetition count and therefore
// collapses the repetition component, which is what drops the level.
func calculateMasteryLevel(repetitionCount int, easeFactor float64, params *Params) float64 {
	repComponent := 1 - math.Pow(2, -float64(repetitionCount))

	easeComponent := (easeFactor - params.MinEaseFactor) / easeNormSpan
	if easeComponent < 0 {
		easeComponent = 0
	}
	if easeComponent > 1 {
		easeComponent = 1
	}

	level := params.RepetitionWeight*repComponent + params.EaseWeight*easeComponent
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	return level
}

// calculateNextStats creates a new ConceptMastery with updated values based
// on the review quality.
//
// This is the immutable update at the core of the scheduler: the input record
// is never modified. The new record has the review appended to its history,
// the ease factor, repetition count and interval advanced per SM-2, the
// mastery level recomputed, and the next review date set to now plus the new
// interval in days.
func calculateNextStats(
	m *domain.ConceptMastery,
	quality int,
	now time.Time,
	params *Params,
) *domain.ConceptMastery {
	next := *m

	next.ReviewHistory = make([]domain.ReviewRecord, len(m.ReviewHistory), len(m.ReviewHistory)+1)
	copy(next.ReviewHistory, m.ReviewHistory)
	next.ReviewHistory = append(next.ReviewHistory, domain.ReviewRecord{
		ReviewedAt: now,
		Quality:    quality,
	})

	next.EaseFactor = calculateNewEaseFactor(m.EaseFactor, quality, params)

	if quality < PassingQuality {
		next.RepetitionCount = 0
	} else {
		next.RepetitionCount = m.RepetitionCount + 1
	}

	next.IntervalDays = calculateNewInterval(
		m.IntervalDays,
		next.RepetitionCount,
		next.EaseFactor,
		quality,
		params,
	)

	next.MasteryLevel = calculateMasteryLevel(next.RepetitionCount, next.EaseFactor, params)

	next.LastReviewDate = now
	next.NextReviewDate = now.AddDate(0, 0, next.IntervalDays)
	next.UpdatedAt = now

	return &next
}
