// Package gemini implements the scoring.Scorer interface on top of Google's
// Gemini API. The model is asked to grade a learner response against the
// question and rubric and to reply with a small JSON document.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/everpath/mastery-api/internal/scoring"
)

// Config holds the settings for the Gemini scorer.
type Config struct {
	APIKey    string
	ModelName string
}

// promptTemplate asks for strict JSON so the response can be unmarshaled
// without scraping.
const promptTemplate = `You are grading a learner's answer.

Question: {{.Question}}
{{- if .Rubric}}
Rubric: {{.Rubric}}
{{- end}}
{{- if .ExpectedAnswer}}
Reference answer: {{.ExpectedAnswer}}
{{- end}}
{{- if .ContextWindow}}
Context: {{.ContextWindow}}
{{- end}}

Learner's answer: {{.Response}}

Respond with only a JSON object of the form
{"score": <number between 0 and 1>, "feedback": "<one or two sentences addressed to the learner>"}.`

// responseSchema mirrors the JSON document the model is instructed to return.
type responseSchema struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Scorer calls the Gemini API to grade free-form responses.
type Scorer struct {
	logger *slog.Logger
	client *genai.Client
	model  string
	tmpl   *template.Template
}

var _ scoring.Scorer = (*Scorer)(nil)

// NewScorer creates a Gemini-backed Scorer.
func NewScorer(ctx context.Context, logger *slog.Logger, cfg Config) (*Scorer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	tmpl, err := template.New("grading").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing grading prompt template: %w", err)
	}

	return &Scorer{
		logger: logger.With(slog.String("component", "gemini_scorer")),
		client: client,
		model:  cfg.ModelName,
		tmpl:   tmpl,
	}, nil
}

// Score implements scoring.Scorer. Transport and model failures surface as
// plain errors so the caller's retry policy can classify them; malformed
// model output is wrapped as ErrScoringUnavailable because retrying a prompt
// the model answers badly rarely helps.
func (s *Scorer) Score(ctx context.Context, req scoring.Request) (scoring.Result, error) {
	if err := req.Validate(); err != nil {
		return scoring.Result{}, fmt.Errorf("%w: %v", scoring.ErrInvalidRequest, err)
	}

	var prompt bytes.Buffer
	if err := s.tmpl.Execute(&prompt, req); err != nil {
		return scoring.Result{}, fmt.Errorf("executing grading prompt: %w", err)
	}

	s.logger.DebugContext(ctx, "calling gemini for grading",
		slog.String("model", s.model),
		slog.Int("prompt_length", prompt.Len()))

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt.String()), nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "gemini call failed", slog.Any("error", err))
		return scoring.Result{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return scoring.Result{}, fmt.Errorf("%w: empty model response", scoring.ErrScoringUnavailable)
	}

	parsed, err := parseJudgment(text)
	if err != nil {
		s.logger.WarnContext(ctx, "unparseable grading response",
			slog.Int("response_length", len(text)),
			slog.Any("error", err))
		return scoring.Result{}, fmt.Errorf("%w: %v", scoring.ErrScoringUnavailable, err)
	}

	return scoring.Result{Score: parsed.Score, Feedback: parsed.Feedback}, nil
}

// parseJudgment unmarshals the model's JSON, tolerating markdown code fences
// around it, and clamps the score to [0,1].
func parseJudgment(text string) (*responseSchema, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parsing grading JSON: %w", err)
	}

	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 1 {
		parsed.Score = 1
	}
	return &parsed, nil
}
