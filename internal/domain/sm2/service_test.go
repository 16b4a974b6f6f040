package sm2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	require.NotNil(t, service)

	ds, ok := service.(*defaultService)
	require.True(t, ok, "Expected *defaultService type")
	require.NotNil(t, ds.params)
	assert.InDelta(t, 1.3, ds.params.MinEaseFactor, 1e-9)
}

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()
	params := NewParams(ParamsConfig{SecondInterval: 4})
	service := NewServiceWithParams(params)

	ds, ok := service.(*defaultService)
	require.True(t, ok, "Expected *defaultService type")
	assert.Equal(t, 4, ds.params.SecondInterval)
	assert.Equal(t, 1, ds.params.FirstInterval, "unset fields keep their defaults")
}

func TestCalculateNextReviewValidation(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()
		_, err := service.CalculateNextReview(nil, 4, now)
		assert.ErrorIs(t, err, ErrNilMastery)
	})

	t.Run("quality below range", func(t *testing.T) {
		t.Parallel()
		m := newTestMastery(t, now)
		_, err := service.CalculateNextReview(m, -1, now)
		assert.ErrorIs(t, err, ErrInvalidQuality)
	})

	t.Run("quality above range", func(t *testing.T) {
		t.Parallel()
		m := newTestMastery(t, now)
		_, err := service.CalculateNextReview(m, 6, now)
		assert.ErrorIs(t, err, ErrInvalidQuality)
	})
}

func TestCalculateNextReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m := newTestMastery(t, now)

	next, err := service.CalculateNextReview(m, 5, now)
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.Equal(t, 1, next.RepetitionCount)
	assert.Equal(t, 1, next.IntervalDays)
	assert.InDelta(t, 2.6, next.EaseFactor, 1e-9)
	assert.Greater(t, next.MasteryLevel, m.MasteryLevel)
	assert.NotSame(t, m, next, "service must return a new record")
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pushes the next review forward", func(t *testing.T) {
		t.Parallel()
		m := newTestMastery(t, now)
		postponed, err := service.PostponeReview(m, 3, now)
		require.NoError(t, err)

		assert.Equal(t, m.NextReviewDate.AddDate(0, 0, 3), postponed.NextReviewDate)
		assert.Equal(t, m.RepetitionCount, postponed.RepetitionCount)
		assert.Empty(t, postponed.ReviewHistory, "postponing is not a review")
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		t.Parallel()
		m := newTestMastery(t, now)
		_, err := service.PostponeReview(m, 0, now)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})

	t.Run("rejects nil record", func(t *testing.T) {
		t.Parallel()
		_, err := service.PostponeReview(nil, 2, now)
		assert.ErrorIs(t, err, ErrNilMastery)
	})
}
