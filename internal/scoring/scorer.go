// Package scoring defines the contract for evaluating free-form learner
// responses. Graders depend on this interface rather than any concrete
// backend so scoring can be swapped or stubbed.
package scoring

import (
	"context"
	"errors"
)

// Common errors
var (
	// ErrScoringUnavailable indicates the scoring backend could not be
	// reached or kept failing past the retry budget. Callers are expected
	// to fall back to local heuristics rather than propagate it.
	ErrScoringUnavailable = errors.New("scoring service unavailable")

	// ErrInvalidRequest indicates the scoring request was malformed.
	ErrInvalidRequest = errors.New("invalid scoring request")
)

// Request carries everything the backend needs to judge one response.
type Request struct {
	// Question is the prompt the learner answered.
	Question string

	// Rubric describes what a complete answer contains.
	Rubric string

	// ExpectedAnswer is a reference answer, when the assessment has one.
	ExpectedAnswer string

	// Response is the learner's answer.
	Response string

	// ContextWindow is optional supporting content, such as the passage or
	// code the question was generated from.
	ContextWindow string
}

// Validate checks the request has the minimum fields for scoring.
func (r Request) Validate() error {
	if r.Question == "" {
		return errors.New("question cannot be empty")
	}
	if r.Response == "" {
		return errors.New("response cannot be empty")
	}
	return nil
}

// Result is the backend's judgment of one response.
type Result struct {
	// Score is the normalized correctness in [0,1].
	Score float64

	// Feedback is a short explanation addressed to the learner.
	Feedback string
}

// Scorer evaluates a learner response against a question and rubric.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, req Request) (Result, error)
}
