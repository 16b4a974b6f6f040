// Package domain contains the core entities of the mastery and scaffolding
// engine: concepts extracted from learning content, assessments generated for
// them, per-learner mastery records driving the spaced-repetition schedule,
// and the transform configuration/result value objects.
//
// Entities validate themselves on construction and are treated as immutable
// by the services layer: state transitions produce new values rather than
// mutating in place.
package domain
