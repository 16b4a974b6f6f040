// Package programming implements the Python-programming adapter. Concepts
// come from an embedded catalog of syntactic patterns matched against raw
// source code.
package programming

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/domain"
)

// DomainID is the registry key for this adapter.
const DomainID = "python-programming"

// recursionPattern finds function definitions so the extractor can check for
// self-calls, which no single regex against the whole source can express.
var recursionPattern = regexp.MustCompile(`(?m)^\s*def\s+(\w+)\s*\(`)

// Adapter extracts programming concepts from Python source.
type Adapter struct {
	cfg     adapter.Config
	catalog *catalog
	byID    map[string]*catalogEntry
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates the python-programming adapter, parsing the embedded catalog.
func New() (*Adapter, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*catalogEntry, len(c.Concepts))
	for i := range c.Concepts {
		byID[c.Concepts[i].ID] = &c.Concepts[i]
	}

	return &Adapter{
		cfg: adapter.Config{
			DomainID:       DomainID,
			Name:           "Python Programming",
			Description:    "Language construct recognition in Python source",
			FileExtensions: []string{".py"},
			SupportedLevels: []domain.BloomLevel{
				domain.BloomRemember,
				domain.BloomUnderstand,
				domain.BloomApply,
				domain.BloomAnalyze,
			},
		},
		catalog: c,
		byID:    byID,
	}, nil
}

// Config implements adapter.Adapter.
func (a *Adapter) Config() adapter.Config {
	return a.cfg
}

// ExtractConcepts matches every catalog entry against the source and returns
// the matched concepts ordered by first occurrence.
func (a *Adapter) ExtractConcepts(ctx context.Context, content string) ([]domain.Concept, error) {
	if strings.TrimSpace(content) == "" {
		return nil, adapter.ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type hit struct {
		entry  *catalogEntry
		offset int
	}

	var hits []hit
	for i := range a.catalog.Concepts {
		entry := &a.catalog.Concepts[i]

		offset := -1
		if len(entry.compiled) > 0 {
			offset = entry.firstMatch(content)
		} else if entry.ID == "recursion" {
			offset = firstRecursiveCall(content)
		}
		if offset >= 0 {
			hits = append(hits, hit{entry: entry, offset: offset})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].offset < hits[j].offset
	})

	concepts := make([]domain.Concept, 0, len(hits))
	for _, h := range hits {
		concepts = append(concepts, a.toConcept(h.entry))
	}
	return concepts, nil
}

func (a *Adapter) toConcept(entry *catalogEntry) domain.Concept {
	return domain.Concept{
		ConceptID:       entry.ID,
		DomainID:        DomainID,
		Name:            entry.Name,
		Description:     entry.Description,
		DifficultyScore: entry.Difficulty,
		RelatedConcepts: entry.Related,
		Examples:        entry.Examples,
		Analogies:       entry.Analogies,
		Metadata:        map[string]string{"language": "python"},
	}
}

// GenerateAssessment produces a recognition question at Remember, an
// explanation prompt at Understand, a coding exercise at Apply, and a
// comparison prompt at Analyze.
func (a *Adapter) GenerateAssessment(ctx context.Context, concept domain.Concept, level domain.BloomLevel) (*domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, ok := a.byID[concept.ConceptID]
	if !ok {
		return nil, fmt.Errorf("concept %q is not in the catalog", concept.ConceptID)
	}

	switch level {
	case domain.BloomRemember:
		return a.recognitionQuestion(entry)
	case domain.BloomUnderstand:
		return a.explanationQuestion(entry)
	case domain.BloomApply:
		return a.codingExercise(entry)
	case domain.BloomAnalyze:
		return a.comparisonQuestion(entry)
	default:
		return nil, fmt.Errorf("%w: %s for %s", adapter.ErrUnsupportedBloomLevel, level, DomainID)
	}
}

// recognitionQuestion asks the learner to pick the construct's description,
// with distractor descriptions drawn from other catalog entries.
func (a *Adapter) recognitionQuestion(entry *catalogEntry) (*domain.Assessment, error) {
	q, err := domain.NewAssessment(
		entry.ID,
		domain.BloomRemember,
		domain.AssessmentMultipleChoice,
		fmt.Sprintf("What does a %s do in Python?", strings.ToLower(entry.Name)),
	)
	if err != nil {
		return nil, err
	}

	q.Options = append(q.Options, domain.AssessmentOption{
		Text:      entry.Description,
		IsCorrect: true,
	})
	for i := range a.catalog.Concepts {
		other := &a.catalog.Concepts[i]
		if other.ID == entry.ID || len(q.Options) >= 4 {
			continue
		}
		q.Options = append(q.Options, domain.AssessmentOption{
			Text:        other.Description,
			Explanation: fmt.Sprintf("That describes a %s.", strings.ToLower(other.Name)),
		})
	}
	q.ExpectedAnswer = entry.Description
	return q, nil
}

func (a *Adapter) explanationQuestion(entry *catalogEntry) (*domain.Assessment, error) {
	q, err := domain.NewAssessment(
		entry.ID,
		domain.BloomUnderstand,
		domain.AssessmentFreeResponse,
		fmt.Sprintf("In your own words, explain what a %s does and when you would reach for one.", strings.ToLower(entry.Name)),
	)
	if err != nil {
		return nil, err
	}

	q.Rubric = fmt.Sprintf(
		"A complete answer covers what the construct does (%s) and names at least one situation where it is the right choice.",
		strings.ToLower(strings.TrimRight(entry.Description, ".")),
	)
	q.ExpectedAnswer = entry.Description
	if len(entry.Examples) > 0 {
		q.Context = entry.Examples[0]
	}
	return q, nil
}

func (a *Adapter) codingExercise(entry *catalogEntry) (*domain.Assessment, error) {
	q, err := domain.NewAssessment(
		entry.ID,
		domain.BloomApply,
		domain.AssessmentCodeExercise,
		fmt.Sprintf("Write a short Python snippet that uses a %s to solve a problem of your choice.", strings.ToLower(entry.Name)),
	)
	if err != nil {
		return nil, err
	}

	q.Rubric = fmt.Sprintf(
		"The snippet must actually use a %s, be syntactically plausible Python, and the construct must do real work rather than appear decoratively.",
		strings.ToLower(entry.Name),
	)
	if len(entry.Examples) > 0 {
		q.ExpectedAnswer = entry.Examples[0]
	}
	return q, nil
}

// comparisonQuestion asks the learner to contrast the construct with a
// related one. Entries without related concepts cannot be assessed at this
// level.
func (a *Adapter) comparisonQuestion(entry *catalogEntry) (*domain.Assessment, error) {
	if len(entry.Related) == 0 {
		return nil, fmt.Errorf("%w: %s has no related construct to compare against",
			adapter.ErrUnsupportedBloomLevel, entry.ID)
	}

	related, ok := a.byID[entry.Related[0]]
	if !ok {
		return nil, fmt.Errorf("catalog entry %q references unknown concept %q", entry.ID, entry.Related[0])
	}

	q, err := domain.NewAssessment(
		entry.ID,
		domain.BloomAnalyze,
		domain.AssessmentFreeResponse,
		fmt.Sprintf("Compare a %s with a %s: when does each one win, and what trade-off drives the choice?",
			strings.ToLower(entry.Name), strings.ToLower(related.Name)),
	)
	if err != nil {
		return nil, err
	}

	q.Rubric = fmt.Sprintf(
		"A complete answer states what each construct does, identifies at least one concrete scenario favoring each, and names the trade-off (such as %s vs %s).",
		strings.ToLower(entry.Name), strings.ToLower(related.Name),
	)
	return q, nil
}

// firstRecursiveCall returns the offset of the first function definition
// whose name appears again later in the source, or -1.
func firstRecursiveCall(source string) int {
	for _, m := range recursionPattern.FindAllStringSubmatchIndex(source, -1) {
		name := source[m[2]:m[3]]
		body := source[m[1]:]
		callPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
		if callPattern.MatchString(body) {
			return m[0]
		}
	}
	return -1
}
