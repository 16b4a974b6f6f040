// Package transform implements the content transformation pipeline: extract
// concepts, look up the learner's mastery, and rewrite the content with
// scaffolding and assessments calibrated to it.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/pedagogy"
	"github.com/everpath/mastery-api/internal/service/mastery"
)

// Transformer runs the pipeline. It reads mastery state but never writes
// it; reviews are the engine's business.
type Transformer struct {
	registry *adapter.Registry
	engine   *mastery.Engine
	logger   *slog.Logger
}

// NewTransformer creates a Transformer. All dependencies are required.
func NewTransformer(registry *adapter.Registry, engine *mastery.Engine, logger *slog.Logger) *Transformer {
	if registry == nil {
		panic("adapter registry cannot be nil")
	}
	if engine == nil {
		panic("mastery engine cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Transformer{
		registry: registry,
		engine:   engine,
		logger:   logger.With(slog.String("component", "transformer")),
	}
}

// Transform rewrites content for one learner.
//
// The pipeline: resolve the domain adapter, extract concepts, cap them at
// cfg.MaxConcepts, fetch the learner's mastery per concept, derive scaffold
// levels and Bloom targets, generate assessments, and annotate the content.
// A concept whose assessment cannot be generated is skipped, not fatal; the
// transform always returns the remaining work.
func (t *Transformer) Transform(
	ctx context.Context,
	learnerID uuid.UUID,
	domainID string,
	content string,
	cfg domain.TransformConfig,
) (*domain.TransformResult, error) {
	a, err := t.registry.Get(domainID)
	if err != nil {
		return nil, err
	}

	concepts, err := a.ExtractConcepts(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("extracting concepts: %w", err)
	}

	if cfg.MaxConcepts > 0 && len(concepts) > cfg.MaxConcepts {
		concepts = concepts[:cfg.MaxConcepts]
	}

	result := &domain.TransformResult{
		ConceptsFound:      concepts,
		ScaffoldLevel:      domain.ScaffoldNone,
		TransformedContent: content,
	}

	if cfg.ScaffoldLevelOverride != "" && !cfg.ScaffoldLevelOverride.Valid() {
		return nil, fmt.Errorf("invalid scaffold level override %q", cfg.ScaffoldLevelOverride)
	}

	annotations := make([]annotation, 0, len(concepts))
	for _, concept := range concepts {
		m, err := t.engine.GetMastery(ctx, learnerID, domainID, concept.ConceptID)
		if err != nil {
			return nil, fmt.Errorf("loading mastery for %s: %w", concept.ConceptID, err)
		}

		level := scaffoldLevelFor(m.MasteryLevel)
		if cfg.ScaffoldLevelOverride != "" {
			level = cfg.ScaffoldLevelOverride
		}
		if level.MoreIntensiveThan(result.ScaffoldLevel) {
			result.ScaffoldLevel = level
		}

		technique := pedagogy.TechniqueFor(concept, m.Stage())
		annotations = append(annotations, annotation{
			concept: concept,
			level:   level,
			hint:    pedagogy.Enhance(concept, technique),
		})

		if !cfg.IncludeAssessments {
			continue
		}

		target := targetBloomLevel(m.MasteryLevel)
		assessment, err := a.GenerateAssessment(ctx, concept, target)
		if err != nil {
			reason := fmt.Sprintf("no assessment at level %s", target)
			if !errors.Is(err, adapter.ErrUnsupportedBloomLevel) {
				reason = err.Error()
			}
			t.logger.DebugContext(ctx, "skipping concept assessment",
				slog.String("concept_id", concept.ConceptID),
				slog.String("bloom_level", string(target)),
				slog.Any("error", err))
			result.Skipped = append(result.Skipped, domain.SkippedConcept{
				ConceptID: concept.ConceptID,
				Reason:    reason,
			})
			continue
		}
		result.Assessments = append(result.Assessments, *assessment)
	}

	// Interleaving only matters once several concepts are mixed together.
	result.Assessments = pedagogy.Interleave(result.Assessments)
	result.TransformedContent = annotate(content, annotations)

	t.logger.InfoContext(ctx, "content transformed",
		slog.String("learner_id", learnerID.String()),
		slog.String("domain_id", domainID),
		slog.Int("concepts", len(concepts)),
		slog.Int("assessments", len(result.Assessments)),
		slog.Int("skipped", len(result.Skipped)),
		slog.String("scaffold_level", string(result.ScaffoldLevel)))
	return result, nil
}
