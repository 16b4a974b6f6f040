package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/adapter/reading"
	"github.com/everpath/mastery-api/internal/api/shared"
	"github.com/everpath/mastery-api/internal/config"
	"github.com/everpath/mastery-api/internal/domain/sm2"
	"github.com/everpath/mastery-api/internal/platform/memory"
	"github.com/everpath/mastery-api/internal/scoring"
	"github.com/everpath/mastery-api/internal/service/auth"
	"github.com/everpath/mastery-api/internal/service/grading"
	"github.com/everpath/mastery-api/internal/service/mastery"
	"github.com/everpath/mastery-api/internal/service/transform"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires the full service stack over in-memory stores.
type testEnv struct {
	learnerStore *memory.LearnerStore
	masteryStore *memory.MasteryStore
	registry     *adapter.Registry
	engine       *mastery.Engine
	authService  *auth.Service
	grader       *grading.Grader
	transformer  *transform.Transformer
	learnerID    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()

	learners := memory.NewLearnerStore()
	masteries := memory.NewMasteryStore()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)

	registry := adapter.NewRegistry()
	require.NoError(t, registry.Register(reading.New()))

	engine := mastery.NewEngine(masteries, sm2.NewDefaultService(), nil, logger)

	return &testEnv{
		learnerStore: learners,
		masteryStore: masteries,
		registry:     registry,
		engine:       engine,
		authService:  auth.NewService(learners, auth.NewBcryptHasher(4), jwtService, logger),
		grader:       grading.NewGrader(nil, scoring.RetryPolicy{MaxAttempts: 1, InitialBackoff: time.Millisecond}, logger),
		transformer:  transform.NewTransformer(registry, engine, logger),
		learnerID:    uuid.New(),
	}
}

// doJSON performs a request against the handler with an optional JSON body
// and the env's learner ID already authenticated into the context.
func (e *testEnv) doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), shared.LearnerIDContextKey, e.learnerID)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
