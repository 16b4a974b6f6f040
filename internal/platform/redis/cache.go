// Package redis provides a read-through cache for mastery records. The cache
// is strictly optional: every operation degrades to the backing store on a
// miss or on any Redis failure.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/everpath/mastery-api/internal/domain"
)

// ErrCacheMiss is returned when the key is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL bounds how stale a cached mastery record can get if an
// invalidation is lost.
const DefaultTTL = 15 * time.Minute

// MasteryCache caches mastery records keyed by (learner, domain, concept).
type MasteryCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewMasteryCache creates a MasteryCache. A zero ttl falls back to
// DefaultTTL.
func NewMasteryCache(client *redis.Client, logger *slog.Logger, ttl time.Duration) *MasteryCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MasteryCache{
		client: client,
		logger: logger.With(slog.String("component", "mastery_cache")),
		ttl:    ttl,
	}
}

func masteryCacheKey(learnerID uuid.UUID, domainID, conceptID string) string {
	return fmt.Sprintf("mastery:%s:%s:%s", learnerID, domainID, conceptID)
}

// Get returns the cached record or ErrCacheMiss.
func (c *MasteryCache) Get(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string) (*domain.ConceptMastery, error) {
	raw, err := c.client.Get(ctx, masteryCacheKey(learnerID, domainID, conceptID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("reading mastery cache: %w", err)
	}

	var m domain.ConceptMastery
	if err := json.Unmarshal(raw, &m); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		c.logger.WarnContext(ctx, "corrupt mastery cache entry",
			slog.String("learner_id", learnerID.String()),
			slog.String("concept_id", conceptID))
		return nil, ErrCacheMiss
	}
	return &m, nil
}

// Set stores the record under its key.
func (c *MasteryCache) Set(ctx context.Context, m *domain.ConceptMastery) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling mastery record: %w", err)
	}

	key := masteryCacheKey(m.LearnerID, m.DomainID, m.ConceptID)
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing mastery cache: %w", err)
	}
	return nil
}

// Invalidate removes the record's cache entry.
func (c *MasteryCache) Invalidate(ctx context.Context, learnerID uuid.UUID, domainID, conceptID string) error {
	if err := c.client.Del(ctx, masteryCacheKey(learnerID, domainID, conceptID)).Err(); err != nil {
		return fmt.Errorf("invalidating mastery cache: %w", err)
	}
	return nil
}
