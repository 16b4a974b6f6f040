// Package pedagogy selects and applies evidence-based learning techniques.
// Everything here is a pure function over domain values; the transform
// pipeline calls it to decorate its output.
package pedagogy

import (
	"fmt"

	"github.com/everpath/mastery-api/internal/domain"
)

// Technique is a named learning technique.
type Technique string

// Supported techniques.
const (
	RetrievalPractice   Technique = "retrieval-practice"
	Feynman             Technique = "feynman"
	ElaborativeEncoding Technique = "elaborative-encoding"
	DualCoding          Technique = "dual-coding"
	Interleaving        Technique = "interleaving"
)

// feynmanDifficultyThreshold is the difficulty above which a reviewing
// learner benefits more from teach-back than plain retrieval.
const feynmanDifficultyThreshold = 0.6

// TechniqueFor picks the technique for one concept given the learner's
// mastery stage.
//
// New and learning material leans on encoding techniques: elaborative
// encoding when the concept ships with analogies to hook into, dual coding
// otherwise. Material under review gets teach-back for hard concepts and
// retrieval practice for the rest; mastered material stays on retrieval
// practice to keep the memory trace active.
func TechniqueFor(concept domain.Concept, stage domain.MasteryStage) Technique {
	switch stage {
	case domain.StageNew, domain.StageLearning:
		if len(concept.Analogies) > 0 {
			return ElaborativeEncoding
		}
		return DualCoding
	case domain.StageReviewing:
		if concept.DifficultyScore >= feynmanDifficultyThreshold {
			return Feynman
		}
		return RetrievalPractice
	default:
		return RetrievalPractice
	}
}

// Enhance produces a short study prompt applying the technique to the
// concept. The prompt is appended to transformed content, not substituted
// for it.
func Enhance(concept domain.Concept, technique Technique) string {
	switch technique {
	case ElaborativeEncoding:
		analogy := ""
		if len(concept.Analogies) > 0 {
			analogy = concept.Analogies[0]
		}
		if analogy != "" {
			return fmt.Sprintf("Connect it: %s Think of %s this way and link it to something you already know.",
				analogy, concept.Name)
		}
		return fmt.Sprintf("Connect it: relate %s to something you already know well.", concept.Name)
	case DualCoding:
		return fmt.Sprintf("Picture it: sketch or visualize %s before reading on. A rough diagram beats a perfect sentence.",
			concept.Name)
	case Feynman:
		return fmt.Sprintf("Teach it: explain %s out loud as if to a beginner. Where your explanation stumbles is what to restudy.",
			concept.Name)
	case RetrievalPractice:
		return fmt.Sprintf("Recall it: before reviewing, write down everything you remember about %s from memory.",
			concept.Name)
	case Interleaving:
		return "Mix it up: alternate between different concepts instead of drilling one at a time."
	default:
		return ""
	}
}

// Interleave reorders assessments so consecutive items cover different
// concepts wherever the mix allows. Within a concept the original order is
// preserved. The input slice is not modified.
func Interleave(assessments []domain.Assessment) []domain.Assessment {
	if len(assessments) < 3 {
		out := make([]domain.Assessment, len(assessments))
		copy(out, assessments)
		return out
	}

	// Queue per concept, in first-appearance order.
	var conceptOrder []string
	queues := make(map[string][]domain.Assessment)
	for _, a := range assessments {
		if _, seen := queues[a.ConceptID]; !seen {
			conceptOrder = append(conceptOrder, a.ConceptID)
		}
		queues[a.ConceptID] = append(queues[a.ConceptID], a)
	}

	out := make([]domain.Assessment, 0, len(assessments))
	for len(out) < len(assessments) {
		progressed := false
		for _, id := range conceptOrder {
			q := queues[id]
			if len(q) == 0 {
				continue
			}
			queues[id] = q[1:]
			out = append(out, q[0])
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

// Describe returns a one-line learner-facing description of the technique.
func Describe(technique Technique) string {
	switch technique {
	case RetrievalPractice:
		return "Actively recalling material strengthens memory far more than rereading it."
	case Feynman:
		return "Explaining a concept simply exposes exactly which parts you have not understood."
	case ElaborativeEncoding:
		return "Linking new material to existing knowledge gives memory more paths back to it."
	case DualCoding:
		return "Pairing words with images builds two complementary memory traces."
	case Interleaving:
		return "Mixing related topics during practice improves discrimination between them."
	default:
		return ""
	}
}

// Valid reports whether the technique is one of the supported techniques.
func (t Technique) Valid() bool {
	switch t {
	case RetrievalPractice, Feynman, ElaborativeEncoding, DualCoding, Interleaving:
		return true
	default:
		return false
	}
}

// String returns the technique name.
func (t Technique) String() string {
	return string(t)
}
