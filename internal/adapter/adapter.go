// Package adapter defines the plugin surface through which knowledge domains
// feed the engine. Each domain implements Adapter once and registers it; the
// transformation pipeline only ever speaks to this interface.
package adapter

import (
	"context"
	"errors"

	"github.com/everpath/mastery-api/internal/domain"
)

// Common errors
var (
	// ErrDomainNotFound is returned when no adapter is registered for a
	// requested domain ID.
	ErrDomainNotFound = errors.New("no adapter registered for domain")

	// ErrUnsupportedBloomLevel is returned by GenerateAssessment when the
	// adapter cannot produce an assessment at the requested level. The
	// pipeline treats this as a per-concept skip, not a failure.
	ErrUnsupportedBloomLevel = errors.New("adapter does not support bloom level")

	// ErrEmptyContent is returned by ExtractConcepts when there is nothing
	// to extract from.
	ErrEmptyContent = errors.New("content cannot be empty")
)

// Config describes a registered adapter.
type Config struct {
	// DomainID is the unique key the adapter registers under.
	DomainID string `json:"domain_id"`

	// Name and Description are human-readable.
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// FileExtensions lists the content file extensions the adapter
	// recognizes, with leading dots.
	FileExtensions []string `json:"file_extensions,omitempty"`

	// SupportedLevels lists the Bloom levels the adapter can generate
	// assessments for, in taxonomy order.
	SupportedLevels []domain.BloomLevel `json:"supported_levels"`
}

// Supports reports whether the adapter generates assessments at the given
// Bloom level.
func (c Config) Supports(level domain.BloomLevel) bool {
	for _, l := range c.SupportedLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Adapter is implemented once per knowledge domain. Implementations must be
// safe for concurrent use; the pipeline calls them from multiple requests.
type Adapter interface {
	// Config returns the adapter's static descriptor.
	Config() Config

	// ExtractConcepts parses raw domain content and returns the concepts it
	// contains, in order of first occurrence. Extraction is deterministic
	// for identical content.
	ExtractConcepts(ctx context.Context, content string) ([]domain.Concept, error)

	// GenerateAssessment produces one assessment for the concept at the
	// requested Bloom level, or ErrUnsupportedBloomLevel if the adapter has
	// no generator for that level.
	GenerateAssessment(ctx context.Context, concept domain.Concept, level domain.BloomLevel) (*domain.Assessment, error)
}
