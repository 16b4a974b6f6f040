// Package grading evaluates learner responses to assessments and converts
// the result into a review quality the scheduler understands. Objective
// assessment types are graded locally; free-form types delegate to the
// scoring backend with a local heuristic as fallback.
package grading

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/scoring"
)

// Result is the outcome of grading one response.
type Result struct {
	// Score is the normalized correctness in [0,1].
	Score float64 `json:"score"`

	// Quality is the SM-2 review quality derived from the score.
	Quality int `json:"quality"`

	// Correct is a convenience flag: score at or above 0.6.
	Correct bool `json:"correct"`

	// Feedback is addressed to the learner.
	Feedback string `json:"feedback"`

	// Degraded is set when the scoring backend was unavailable and the
	// grade came from the local heuristic instead.
	Degraded bool `json:"degraded,omitempty"`
}

// correctThreshold is the score at or above which a response counts as
// correct. It matches quality >= 3, the SM-2 passing grade.
const correctThreshold = 0.6

// Grader grades responses. A nil scorer disables external scoring; free-form
// responses are then always graded by the fallback heuristic.
type Grader struct {
	scorer scoring.Scorer
	policy scoring.RetryPolicy
	logger *slog.Logger
}

// NewGrader creates a Grader. scorer may be nil.
func NewGrader(scorer scoring.Scorer, policy scoring.RetryPolicy, logger *slog.Logger) *Grader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if policy.MaxAttempts < 1 {
		policy = scoring.DefaultRetryPolicy()
	}
	return &Grader{
		scorer: scorer,
		policy: policy,
		logger: logger.With(slog.String("component", "grader")),
	}
}

// Grade evaluates the response. It never returns a scoring backend error:
// free-form grading degrades to the local heuristic when the backend is
// unreachable. The only errors are malformed inputs.
func (g *Grader) Grade(ctx context.Context, assessment *domain.Assessment, response string) (*Result, error) {
	if assessment == nil {
		return nil, fmt.Errorf("assessment cannot be nil")
	}
	if err := assessment.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assessment: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return nil, fmt.Errorf("response cannot be empty")
	}

	switch assessment.Type {
	case domain.AssessmentMultipleChoice:
		return g.gradeMultipleChoice(assessment, response), nil
	case domain.AssessmentFillInBlank:
		return g.gradeFillInBlank(assessment, response), nil
	default:
		return g.gradeFreeForm(ctx, assessment, response), nil
	}
}

// gradeMultipleChoice accepts an option letter (A-D), a 1-based option
// number, or the option text itself.
func (g *Grader) gradeMultipleChoice(assessment *domain.Assessment, response string) *Result {
	selected := selectOption(assessment.Options, response)
	if selected == nil {
		return finish(0, "That answer did not match any of the options.", false)
	}

	if selected.IsCorrect {
		return finish(1, "Correct.", false)
	}

	feedback := "Not quite."
	if selected.Explanation != "" {
		feedback = fmt.Sprintf("Not quite. %s", selected.Explanation)
	}
	if correct := assessment.CorrectOption(); correct != nil {
		feedback = fmt.Sprintf("%s The correct answer was: %s", feedback, correct.Text)
	}
	return finish(0, feedback, false)
}

// gradeFillInBlank compares the normalized response to the expected answer.
func (g *Grader) gradeFillInBlank(assessment *domain.Assessment, response string) *Result {
	if normalize(response) == normalize(assessment.ExpectedAnswer) {
		return finish(1, "Correct.", false)
	}
	return finish(0, fmt.Sprintf("The expected answer was %q.", assessment.ExpectedAnswer), false)
}

// gradeFreeForm delegates to the scoring backend and falls back to the
// keyword heuristic when it is unavailable.
func (g *Grader) gradeFreeForm(ctx context.Context, assessment *domain.Assessment, response string) *Result {
	if g.scorer != nil {
		result, err := scoring.ScoreWithRetry(ctx, g.scorer, scoring.Request{
			Question:       assessment.Question,
			Rubric:         assessment.Rubric,
			ExpectedAnswer: assessment.ExpectedAnswer,
			Response:       response,
			ContextWindow:  assessment.Context,
		}, g.policy)
		if err == nil {
			return finish(result.Score, result.Feedback, false)
		}
		g.logger.WarnContext(ctx, "scoring backend unavailable, using fallback heuristic",
			slog.String("concept_id", assessment.ConceptID),
			slog.Any("error", err))
	}

	score := keywordOverlap(assessment, response)
	feedback := fmt.Sprintf(
		"Provisional grade: detailed feedback is unavailable right now. Your answer matched %d%% of the expected key points.",
		int(math.Round(score*100)))
	return finish(score, feedback, true)
}

func finish(score float64, feedback string, degraded bool) *Result {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return &Result{
		Score:    score,
		Quality:  int(math.Round(score * 5)),
		Correct:  score >= correctThreshold,
		Feedback: feedback,
		Degraded: degraded,
	}
}

// selectOption resolves a multiple-choice response to an option.
func selectOption(options []domain.AssessmentOption, response string) *domain.AssessmentOption {
	trimmed := strings.TrimSpace(response)

	// Single letter: A, b, C...
	if len(trimmed) == 1 {
		idx := -1
		c := trimmed[0]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = int(c - 'A')
		case c >= 'a' && c <= 'z':
			idx = int(c - 'a')
		case c >= '1' && c <= '9':
			idx = int(c - '1')
		}
		if idx >= 0 && idx < len(options) {
			return &options[idx]
		}
		return nil
	}

	norm := normalize(trimmed)
	for i := range options {
		if normalize(options[i].Text) == norm {
			return &options[i]
		}
	}
	return nil
}

// normalize lowercases, trims, and collapses interior whitespace so cosmetic
// differences don't fail a comparison.
func normalize(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	joined := strings.Join(fields, " ")
	return strings.Trim(joined, ".!?,;:\"'")
}

// keywordOverlap estimates correctness as the fraction of content words from
// the rubric and expected answer that appear in the response. It is a crude
// floor, not a substitute for real scoring.
func keywordOverlap(assessment *domain.Assessment, response string) float64 {
	reference := assessment.Rubric + " " + assessment.ExpectedAnswer
	refWords := contentWords(reference)
	if len(refWords) == 0 {
		// Nothing to compare against; a non-empty attempt gets partial credit.
		return 0.5
	}

	respWords := make(map[string]struct{})
	for _, w := range contentWords(response) {
		respWords[w] = struct{}{}
	}

	matched := 0
	for _, w := range refWords {
		if _, ok := respWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(refWords))
}

func contentWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".!?,;:\"'()")
		if len(w) >= 4 {
			words = append(words, w)
		}
	}
	return words
}
