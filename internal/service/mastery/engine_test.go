package mastery

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/domain/sm2"
	"github.com/everpath/mastery-api/internal/platform/memory"
)

func newTestEngine() *Engine {
	return NewEngine(memory.NewMasteryStore(), sm2.NewDefaultService(), nil, slog.Default())
}

func TestGetMasteryUnknownConceptReturnsFreshRecord(t *testing.T) {
	t.Parallel()
	e := newTestEngine()
	ctx := context.Background()
	learnerID := uuid.New()

	m, err := e.GetMastery(ctx, learnerID, "reading-skills", "vocab:ephemeral")
	require.NoError(t, err)

	assert.Equal(t, learnerID, m.LearnerID)
	assert.InDelta(t, domain.DefaultEaseFactor, m.EaseFactor, 1e-9)
	assert.Equal(t, 0, m.RepetitionCount)
	assert.Equal(t, domain.StageNew, m.Stage())

	// Reads never create state.
	due, err := e.DueConcepts(ctx, learnerID, "", time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestRecordReviewPersistsAdvancedRecord(t *testing.T) {
	t.Parallel()
	e := newTestEngine()
	ctx := context.Background()
	learnerID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := e.RecordReview(ctx, learnerID, "reading-skills", "vocab:ephemeral", 4, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.RepetitionCount)
	assert.Equal(t, 1, first.IntervalDays)

	second, err := e.RecordReview(ctx, learnerID, "reading-skills", "vocab:ephemeral", 5, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, second.RepetitionCount)
	assert.Equal(t, 6, second.IntervalDays)
	require.Len(t, second.ReviewHistory, 2)

	// Reads see the persisted state.
	got, err := e.GetMastery(ctx, learnerID, "reading-skills", "vocab:ephemeral")
	require.NoError(t, err)
	assert.Equal(t, second.RepetitionCount, got.RepetitionCount)
}

func TestRecordReviewRejectsInvalidQuality(t *testing.T) {
	t.Parallel()
	e := newTestEngine()

	_, err := e.RecordReview(context.Background(), uuid.New(), "reading-skills", "vocab:x", 9, time.Now().UTC())
	assert.ErrorIs(t, err, sm2.ErrInvalidQuality)
}

func TestRecordReviewHonorsCancellation(t *testing.T) {
	t.Parallel()
	e := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.RecordReview(ctx, uuid.New(), "reading-skills", "vocab:x", 4, time.Now().UTC())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentReviewsSerialize(t *testing.T) {
	t.Parallel()
	e := newTestEngine()
	ctx := context.Background()
	learnerID := uuid.New()
	now := time.Now().UTC()

	const reviews = 10
	var wg sync.WaitGroup
	for i := 0; i < reviews; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			_, err := e.RecordReview(ctx, learnerID, "python-programming", "decorator", 5,
				now.Add(time.Duration(offset)*time.Second))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	m, err := e.GetMastery(ctx, learnerID, "python-programming", "decorator")
	require.NoError(t, err)
	assert.Len(t, m.ReviewHistory, reviews, "no review may be lost to a race")
	assert.Equal(t, reviews, m.RepetitionCount)
}

func TestDueConceptsOrdering(t *testing.T) {
	t.Parallel()
	e := newTestEngine()
	ctx := context.Background()
	learnerID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Three concepts reviewed at different times; all due by base+10d.
	_, err := e.RecordReview(ctx, learnerID, "reading-skills", "vocab:a", 5, base)
	require.NoError(t, err)
	_, err = e.RecordReview(ctx, learnerID, "reading-skills", "vocab:b", 3, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	_, err = e.RecordReview(ctx, learnerID, "reading-skills", "vocab:c", 5, base.AddDate(0, 0, 4))
	require.NoError(t, err)

	due, err := e.DueConcepts(ctx, learnerID, "reading-skills", base.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, due, 3)

	for i := 1; i < len(due); i++ {
		assert.False(t, due[i].NextReviewDate.Before(due[i-1].NextReviewDate),
			"due queue must be ordered by next review date")
	}
}

func TestLoadProfile(t *testing.T) {
	t.Parallel()
	e := newTestEngine()
	ctx := context.Background()
	now := time.Now().UTC()

	learner, err := domain.NewLearner("Alex", "alex@example.com", "hashed")
	require.NoError(t, err)

	_, err = e.RecordReview(ctx, learner.ID, "reading-skills", "vocab:a", 4, now)
	require.NoError(t, err)
	_, err = e.RecordReview(ctx, learner.ID, "python-programming", "decorator", 5, now)
	require.NoError(t, err)

	profile, err := e.LoadProfile(ctx, learner)
	require.NoError(t, err)

	assert.Equal(t, learner.ID, profile.LearnerID)
	require.Len(t, profile.Mastery, 2)
	assert.NotNil(t, profile.Get("reading-skills", "vocab:a"))
	assert.Nil(t, profile.Get("reading-skills", "vocab:zzz"))
	assert.Greater(t, profile.DomainAverage("python-programming"), 0.0)
}
