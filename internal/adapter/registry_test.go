package adapter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everpath/mastery-api/internal/domain"
)

type stubAdapter struct {
	cfg Config
}

func (s *stubAdapter) Config() Config { return s.cfg }

func (s *stubAdapter) ExtractConcepts(_ context.Context, _ string) ([]domain.Concept, error) {
	return nil, nil
}

func (s *stubAdapter) GenerateAssessment(_ context.Context, _ domain.Concept, _ domain.BloomLevel) (*domain.Assessment, error) {
	return nil, ErrUnsupportedBloomLevel
}

func newStub(domainID string) *stubAdapter {
	return &stubAdapter{cfg: Config{
		DomainID:        domainID,
		Name:            domainID,
		SupportedLevels: []domain.BloomLevel{domain.BloomRemember},
	}}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	stub := newStub("reading-skills")
	require.NoError(t, r.Register(stub))

	got, err := r.Get("reading-skills")
	require.NoError(t, err)
	assert.Same(t, Adapter(stub), got)
}

func TestRegistryGetUnknownDomain(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	_, err := r.Get("astrophysics")
	assert.ErrorIs(t, err, ErrDomainNotFound)
	assert.Contains(t, err.Error(), "astrophysics")
}

func TestRegistryRegisterValidation(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&stubAdapter{cfg: Config{DomainID: ""}}))
}

func TestRegistryReplaceOnReregister(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	first := newStub("reading-skills")
	second := newStub("reading-skills")
	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	got, err := r.Get("reading-skills")
	require.NoError(t, err)
	assert.Same(t, Adapter(second), got, "later registration wins")
	assert.Len(t, r.List(), 1)
}

func TestRegistryListSorted(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	require.NoError(t, r.Register(newStub("python-programming")))
	require.NoError(t, r.Register(newStub("reading-skills")))
	require.NoError(t, r.Register(newStub("algebra")))

	configs := r.List()
	require.Len(t, configs, 3)
	assert.Equal(t, "algebra", configs[0].DomainID)
	assert.Equal(t, "python-programming", configs[1].DomainID)
	assert.Equal(t, "reading-skills", configs[2].DomainID)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("reading-skills")))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register(newStub("python-programming"))
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Get("reading-skills")
			_ = r.List()
		}()
	}
	wg.Wait()

	assert.Len(t, r.List(), 2)
}

func TestConfigSupports(t *testing.T) {
	t.Parallel()
	cfg := Config{
		DomainID:        "reading-skills",
		SupportedLevels: []domain.BloomLevel{domain.BloomRemember, domain.BloomUnderstand},
	}

	assert.True(t, cfg.Supports(domain.BloomRemember))
	assert.False(t, cfg.Supports(domain.BloomCreate))
}
