package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMastery(t *testing.T) *ConceptMastery {
	t.Helper()
	m, err := NewConceptMastery(uuid.New(), "reading-skills", "vocab:ubiquitous", time.Now().UTC())
	require.NoError(t, err)
	return m
}

func TestNewConceptMastery(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	learnerID := uuid.New()

	m, err := NewConceptMastery(learnerID, "python-programming", "list-comprehension", now)
	require.NoError(t, err)

	assert.Equal(t, learnerID, m.LearnerID)
	assert.InDelta(t, DefaultEaseFactor, m.EaseFactor, 1e-9)
	assert.Equal(t, 0, m.RepetitionCount)
	assert.Equal(t, 0, m.IntervalDays)
	assert.Equal(t, now, m.NextReviewDate, "fresh records are due immediately")
	assert.True(t, m.LastReviewDate.IsZero())
	assert.Empty(t, m.ReviewHistory)
}

func TestConceptMasteryValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	testCases := []struct {
		name     string
		mutate   func(*ConceptMastery)
		expected error
	}{
		{
			name:     "valid record",
			mutate:   func(m *ConceptMastery) {},
			expected: nil,
		},
		{
			name:     "missing learner ID",
			mutate:   func(m *ConceptMastery) { m.LearnerID = uuid.Nil },
			expected: ErrEmptyMasteryLearnerID,
		},
		{
			name:     "missing domain ID",
			mutate:   func(m *ConceptMastery) { m.DomainID = "" },
			expected: ErrEmptyMasteryDomainID,
		},
		{
			name:     "missing concept ID",
			mutate:   func(m *ConceptMastery) { m.ConceptID = "" },
			expected: ErrEmptyMasteryConceptID,
		},
		{
			name:     "ease factor below floor",
			mutate:   func(m *ConceptMastery) { m.EaseFactor = 1.2 },
			expected: ErrInvalidMasteryState,
		},
		{
			name:     "negative repetition count",
			mutate:   func(m *ConceptMastery) { m.RepetitionCount = -1 },
			expected: ErrInvalidMasteryState,
		},
		{
			name:     "negative interval",
			mutate:   func(m *ConceptMastery) { m.IntervalDays = -3 },
			expected: ErrInvalidMasteryState,
		},
		{
			name:     "long interval without repetitions",
			mutate:   func(m *ConceptMastery) { m.IntervalDays = 14 },
			expected: ErrInvalidMasteryState,
		},
		{
			name:     "mastery level above one",
			mutate:   func(m *ConceptMastery) { m.MasteryLevel = 1.01 },
			expected: ErrInvalidMasteryState,
		},
		{
			name: "next review before last review",
			mutate: func(m *ConceptMastery) {
				m.LastReviewDate = now
				m.NextReviewDate = now.AddDate(0, 0, -1)
			},
			expected: ErrInvalidMasteryState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := validMastery(t)
			tc.mutate(m)

			err := m.Validate()
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func TestConceptMasteryRepair(t *testing.T) {
	t.Parallel()

	t.Run("clamps broken scheduling fields", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		m.EaseFactor = 0.5
		m.RepetitionCount = -2
		m.IntervalDays = -7
		m.MasteryLevel = 1.4

		repaired, err := m.Repair()
		require.NoError(t, err)
		require.NoError(t, repaired.Validate())

		assert.InDelta(t, DefaultEaseFactor, repaired.EaseFactor, 1e-9)
		assert.Equal(t, 0, repaired.RepetitionCount)
		assert.Equal(t, 0, repaired.IntervalDays)
		assert.InDelta(t, 1.0, repaired.MasteryLevel, 1e-9)

		// Repair works on a copy.
		assert.InDelta(t, 0.5, m.EaseFactor, 1e-9)
	})

	t.Run("leaves valid records unchanged", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		repaired, err := m.Repair()
		require.NoError(t, err)
		assert.Equal(t, *m, *repaired)
	})

	t.Run("cannot repair broken identity", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		m.ConceptID = ""
		_, err := m.Repair()
		assert.ErrorIs(t, err, ErrEmptyMasteryConceptID)
	})
}

func TestConceptMasteryStage(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	t.Run("fresh record is new", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		assert.Equal(t, StageNew, m.Stage())
	})

	t.Run("single repetition is learning", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		m.RepetitionCount = 1
		m.IntervalDays = 1
		m.ReviewHistory = []ReviewRecord{{ReviewedAt: now, Quality: 4}}
		assert.Equal(t, StageLearning, m.Stage())
	})

	t.Run("lapsed record with history is learning, not new", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		m.RepetitionCount = 0
		m.IntervalDays = 1
		m.ReviewHistory = []ReviewRecord{{ReviewedAt: now, Quality: 2}}
		assert.Equal(t, StageLearning, m.Stage())
	})

	t.Run("two repetitions is reviewing", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		m.RepetitionCount = 2
		m.IntervalDays = 6
		m.ReviewHistory = []ReviewRecord{{ReviewedAt: now, Quality: 4}, {ReviewedAt: now, Quality: 4}}
		assert.Equal(t, StageReviewing, m.Stage())
	})

	t.Run("mastered needs both level and interval", func(t *testing.T) {
		t.Parallel()
		m := validMastery(t)
		m.RepetitionCount = 5
		m.MasteryLevel = 0.9
		m.IntervalDays = 30
		assert.Equal(t, StageMastered, m.Stage())

		m.IntervalDays = 10
		assert.Equal(t, StageReviewing, m.Stage(), "high level with a short interval is not mastered")
	})
}

func TestConceptMasteryDue(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	m := validMastery(t)
	m.NextReviewDate = now

	assert.True(t, m.Due(now))
	assert.True(t, m.Due(now.Add(time.Hour)))
	assert.False(t, m.Due(now.Add(-time.Hour)))
}
