package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/domain/sm2"
	"github.com/everpath/mastery-api/internal/platform/memory"
	"github.com/everpath/mastery-api/internal/service/mastery"
)

const testDomainID = "test-domain"

// stubAdapter extracts a fixed vocabulary of concepts by substring match and
// generates multiple-choice assessments up to a configurable Bloom ceiling.
type stubAdapter struct {
	vocabulary []domain.Concept
	maxLevel   domain.BloomLevel
}

func newStubAdapter() *stubAdapter {
	return &stubAdapter{
		vocabulary: []domain.Concept{
			{
				ConceptID:   "recursion",
				DomainID:    testDomainID,
				Name:        "recursion",
				Description: "A function that calls itself.",
				Analogies:   []string{"Like mirrors facing each other."},
			},
			{
				ConceptID:   "closure",
				DomainID:    testDomainID,
				Name:        "closure",
				Description: "A function bundled with its environment.",
			},
		},
		maxLevel: domain.BloomApply,
	}
}

func (s *stubAdapter) Config() adapter.Config {
	return adapter.Config{
		DomainID:        testDomainID,
		Name:            "Test Domain",
		SupportedLevels: []domain.BloomLevel{domain.BloomRemember, domain.BloomUnderstand, domain.BloomApply},
	}
}

func (s *stubAdapter) ExtractConcepts(_ context.Context, content string) ([]domain.Concept, error) {
	if strings.TrimSpace(content) == "" {
		return nil, adapter.ErrEmptyContent
	}
	var found []domain.Concept
	lower := strings.ToLower(content)
	for _, c := range s.vocabulary {
		if strings.Contains(lower, c.Name) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (s *stubAdapter) GenerateAssessment(_ context.Context, concept domain.Concept, level domain.BloomLevel) (*domain.Assessment, error) {
	if level.Rank() > s.maxLevel.Rank() {
		return nil, fmt.Errorf("%w: %s", adapter.ErrUnsupportedBloomLevel, level)
	}
	a, err := domain.NewAssessment(concept.ConceptID, level, domain.AssessmentMultipleChoice,
		fmt.Sprintf("What is %s?", concept.Name))
	if err != nil {
		return nil, err
	}
	a.Options = []domain.AssessmentOption{
		{Text: concept.Description, IsCorrect: true},
		{Text: "None of the above."},
	}
	return a, nil
}

var _ adapter.Adapter = (*stubAdapter)(nil)

type fixture struct {
	transformer *Transformer
	store       *memory.MasteryStore
	learnerID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := adapter.NewRegistry()
	require.NoError(t, registry.Register(newStubAdapter()))

	masteries := memory.NewMasteryStore()
	engine := mastery.NewEngine(masteries, sm2.NewDefaultService(), nil, slog.Default())

	return &fixture{
		transformer: NewTransformer(registry, engine, slog.Default()),
		store:       masteries,
		learnerID:   uuid.New(),
	}
}

// seedMastery stores a valid record with the given mastery level.
func (f *fixture) seedMastery(t *testing.T, conceptID string, level float64) {
	t.Helper()
	now := time.Now().UTC()
	m := &domain.ConceptMastery{
		LearnerID:       f.learnerID,
		DomainID:        testDomainID,
		ConceptID:       conceptID,
		EaseFactor:      domain.DefaultEaseFactor,
		RepetitionCount: 4,
		IntervalDays:    30,
		LastReviewDate:  now.AddDate(0, 0, -5),
		NextReviewDate:  now.AddDate(0, 0, 25),
		MasteryLevel:    level,
		ReviewHistory:   []domain.ReviewRecord{{ReviewedAt: now.AddDate(0, 0, -5), Quality: 5}},
		CreatedAt:       now.AddDate(0, 0, -60),
		UpdatedAt:       now,
	}
	require.NoError(t, m.Validate())
	require.NoError(t, f.store.Put(context.Background(), m))
}

const sampleContent = "Recursion is everywhere. A closure captures variables; recursion just repeats."

func TestTransformNewLearnerGetsHeavyScaffolding(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	result, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID,
		sampleContent, domain.DefaultTransformConfig())
	require.NoError(t, err)

	require.Len(t, result.ConceptsFound, 2)
	assert.Equal(t, domain.ScaffoldHeavy, result.ScaffoldLevel)
	assert.Empty(t, result.Skipped)

	// A fresh learner is assessed at the bottom of the taxonomy.
	require.Len(t, result.Assessments, 2)
	for _, a := range result.Assessments {
		assert.Equal(t, domain.BloomRemember, a.BloomLevel)
	}

	// Heavy markers carry a hint and a description.
	assert.Contains(t, result.TransformedContent, "[[Recursion // ")
	assert.Contains(t, result.TransformedContent, "[[closure // ")
	assert.Contains(t, result.TransformedContent, "A function that calls itself.")
}

func TestTransformHighMasteryGetsNoScaffolding(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedMastery(t, "recursion", 0.9)
	f.seedMastery(t, "closure", 0.9)

	result, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID,
		sampleContent, domain.DefaultTransformConfig())
	require.NoError(t, err)

	assert.Equal(t, domain.ScaffoldNone, result.ScaffoldLevel)
	assert.Equal(t, sampleContent, result.TransformedContent, "no markers at scaffold level none")

	// Evaluate is above the stub's ceiling, so both concepts are skipped
	// rather than failing the whole transform.
	assert.Empty(t, result.Assessments)
	require.Len(t, result.Skipped, 2)
	assert.Contains(t, result.Skipped[0].Reason, string(domain.BloomEvaluate))
}

func TestTransformOverallLevelIsMostIntensive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedMastery(t, "recursion", 0.9) // none
	f.seedMastery(t, "closure", 0.5)   // moderate

	result, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID,
		sampleContent, domain.DefaultTransformConfig())
	require.NoError(t, err)

	assert.Equal(t, domain.ScaffoldModerate, result.ScaffoldLevel)
	assert.NotContains(t, result.TransformedContent, "[[Recursion", "mastered concept stays unmarked")
	assert.Contains(t, result.TransformedContent, "[[closure // ")
	assert.NotContains(t, result.TransformedContent, " | ", "moderate markers carry no description")
}

func TestTransformIsIdempotentOnAnnotatedContent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cfg := domain.DefaultTransformConfig()
	first, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID, sampleContent, cfg)
	require.NoError(t, err)

	second, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID,
		first.TransformedContent, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.TransformedContent, second.TransformedContent)
}

func TestTransformMaxConcepts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cfg := domain.DefaultTransformConfig()
	cfg.MaxConcepts = 1
	result, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID, sampleContent, cfg)
	require.NoError(t, err)

	require.Len(t, result.ConceptsFound, 1)
	assert.Equal(t, "recursion", result.ConceptsFound[0].ConceptID, "extraction order is preserved")
	assert.Len(t, result.Assessments, 1)
}

func TestTransformScaffoldOverride(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedMastery(t, "recursion", 0.9)
	f.seedMastery(t, "closure", 0.9)

	cfg := domain.DefaultTransformConfig()
	cfg.ScaffoldLevelOverride = domain.ScaffoldLight
	result, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID, sampleContent, cfg)
	require.NoError(t, err)

	assert.Equal(t, domain.ScaffoldLight, result.ScaffoldLevel)
	assert.Contains(t, result.TransformedContent, "[[Recursion]]")
	assert.Contains(t, result.TransformedContent, "[[closure]]")
}

func TestTransformInvalidOverride(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cfg := domain.DefaultTransformConfig()
	cfg.ScaffoldLevelOverride = "extreme"
	_, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID, sampleContent, cfg)
	assert.Error(t, err)
}

func TestTransformWithoutAssessments(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	result, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID,
		sampleContent, domain.TransformConfig{IncludeAssessments: false})
	require.NoError(t, err)

	assert.Empty(t, result.Assessments)
	assert.Empty(t, result.Skipped)
	assert.Contains(t, result.TransformedContent, "[[", "scaffolding is independent of assessments")
}

func TestTransformUnknownDomain(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.transformer.Transform(context.Background(), f.learnerID, "no-such-domain",
		sampleContent, domain.DefaultTransformConfig())
	assert.ErrorIs(t, err, adapter.ErrDomainNotFound)
}

func TestTransformEmptyContent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.transformer.Transform(context.Background(), f.learnerID, testDomainID,
		"   ", domain.DefaultTransformConfig())
	assert.ErrorIs(t, err, adapter.ErrEmptyContent)
}
