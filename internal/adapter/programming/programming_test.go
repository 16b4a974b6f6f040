package programming

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/domain"
)

const sampleSource = `def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)

squares = [x * x for x in range(10)]

with open("data.txt") as f:
    lines = f.readlines()
`

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := New()
	require.NoError(t, err, "embedded catalog must load")
	return a
}

func TestNewLoadsCatalog(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)

	cfg := a.Config()
	assert.Equal(t, DomainID, cfg.DomainID)
	assert.True(t, cfg.Supports(domain.BloomAnalyze))
	assert.False(t, cfg.Supports(domain.BloomCreate))
	assert.NotEmpty(t, a.catalog.Concepts)
}

func TestExtractConcepts(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)
	ctx := context.Background()

	concepts, err := a.ExtractConcepts(ctx, sampleSource)
	require.NoError(t, err)

	ids := make([]string, len(concepts))
	for i, c := range concepts {
		ids[i] = c.ConceptID
		require.NoError(t, c.Validate())
		assert.Equal(t, DomainID, c.DomainID)
	}

	assert.Contains(t, ids, "function-definition")
	assert.Contains(t, ids, "recursion", "fib calls itself")
	assert.Contains(t, ids, "list-comprehension")
	assert.Contains(t, ids, "context-manager")
	assert.NotContains(t, ids, "decorator")
	assert.NotContains(t, ids, "lambda-function")

	// Ordered by first occurrence in the source.
	assert.Less(t, indexOf(ids, "function-definition"), indexOf(ids, "list-comprehension"))
	assert.Less(t, indexOf(ids, "list-comprehension"), indexOf(ids, "context-manager"))
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func TestExtractConceptsDeterministic(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)
	ctx := context.Background()

	first, err := a.ExtractConcepts(ctx, sampleSource)
	require.NoError(t, err)
	second, err := a.ExtractConcepts(ctx, sampleSource)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractConceptsEmptyContent(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)

	_, err := a.ExtractConcepts(context.Background(), "")
	assert.ErrorIs(t, err, adapter.ErrEmptyContent)
}

func TestGenerateAssessment(t *testing.T) {
	t.Parallel()
	a := newTestAdapter(t)
	ctx := context.Background()
	concept := a.toConcept(a.byID["list-comprehension"])

	t.Run("remember level draws distractors from the catalog", func(t *testing.T) {
		t.Parallel()
		q, err := a.GenerateAssessment(ctx, concept, domain.BloomRemember)
		require.NoError(t, err)

		assert.Equal(t, domain.AssessmentMultipleChoice, q.Type)
		require.Len(t, q.Options, 4)
		correct := q.CorrectOption()
		require.NotNil(t, correct)
		assert.Equal(t, a.byID["list-comprehension"].Description, correct.Text)
	})

	t.Run("understand level produces free response with rubric", func(t *testing.T) {
		t.Parallel()
		q, err := a.GenerateAssessment(ctx, concept, domain.BloomUnderstand)
		require.NoError(t, err)

		assert.Equal(t, domain.AssessmentFreeResponse, q.Type)
		assert.NotEmpty(t, q.Rubric)
		assert.NotEmpty(t, q.Context, "catalog example becomes the context")
	})

	t.Run("apply level produces code exercise", func(t *testing.T) {
		t.Parallel()
		q, err := a.GenerateAssessment(ctx, concept, domain.BloomApply)
		require.NoError(t, err)

		assert.Equal(t, domain.AssessmentCodeExercise, q.Type)
		assert.Contains(t, q.Question, "list comprehension")
	})

	t.Run("analyze level compares against a related construct", func(t *testing.T) {
		t.Parallel()
		q, err := a.GenerateAssessment(ctx, concept, domain.BloomAnalyze)
		require.NoError(t, err)

		assert.Equal(t, domain.AssessmentFreeResponse, q.Type)
		assert.Contains(t, q.Question, "generator expression")
	})

	t.Run("analyze without related constructs is unsupported", func(t *testing.T) {
		t.Parallel()
		fstring := a.toConcept(a.byID["f-string"])
		_, err := a.GenerateAssessment(ctx, fstring, domain.BloomAnalyze)
		assert.ErrorIs(t, err, adapter.ErrUnsupportedBloomLevel)
	})

	t.Run("evaluate and create are unsupported", func(t *testing.T) {
		t.Parallel()
		for _, level := range []domain.BloomLevel{domain.BloomEvaluate, domain.BloomCreate} {
			_, err := a.GenerateAssessment(ctx, concept, level)
			assert.ErrorIs(t, err, adapter.ErrUnsupportedBloomLevel, "level %s", level)
		}
	})

	t.Run("unknown concept is rejected", func(t *testing.T) {
		t.Parallel()
		unknown := domain.Concept{ConceptID: "monads", DomainID: DomainID, Name: "Monads"}
		_, err := a.GenerateAssessment(ctx, unknown, domain.BloomRemember)
		assert.Error(t, err)
	})
}

func TestRecursionDetection(t *testing.T) {
	t.Parallel()

	t.Run("self-call is detected", func(t *testing.T) {
		t.Parallel()
		src := "def walk(node):\n    for child in node.children:\n        walk(child)\n"
		assert.GreaterOrEqual(t, firstRecursiveCall(src), 0)
	})

	t.Run("plain function is not recursive", func(t *testing.T) {
		t.Parallel()
		src := "def add(a, b):\n    return a + b\n"
		assert.Equal(t, -1, firstRecursiveCall(src))
	})
}
