// Package reading implements the vocabulary-acquisition adapter. It extracts
// candidate vocabulary words from prose and generates recognition, cloze and
// production assessments for them.
package reading

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/everpath/mastery-api/internal/adapter"
	"github.com/everpath/mastery-api/internal/domain"
)

// DomainID is the registry key for this adapter.
const DomainID = "reading-skills"

// minWordLength filters out short words that are almost never worth studying.
const minWordLength = 5

// maxContexts caps how many sentence contexts are kept per word.
const maxContexts = 3

var (
	wordPattern     = regexp.MustCompile(`[A-Za-z][A-Za-z'-]*[A-Za-z]`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]?`)
)

// commonWords are high-frequency words excluded from extraction. The list is
// intentionally small; the length filter removes most function words already.
var commonWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"about above after again along among around because before being below " +
			"between could every first found great house large learn little might " +
			"never other people place right should small sound still their there " +
			"these thing think those through under water where which while world " +
			"would write years during against without another something someone " +
			"really always though getting making taking coming thought") {
		commonWords[w] = struct{}{}
	}
}

// Adapter extracts vocabulary concepts from prose content.
type Adapter struct {
	cfg adapter.Config
}

var _ adapter.Adapter = (*Adapter)(nil)

// New creates the reading-skills adapter.
func New() *Adapter {
	return &Adapter{
		cfg: adapter.Config{
			DomainID:       DomainID,
			Name:           "Reading Skills",
			Description:    "Vocabulary acquisition from prose passages",
			FileExtensions: []string{".txt", ".md"},
			SupportedLevels: []domain.BloomLevel{
				domain.BloomRemember,
				domain.BloomUnderstand,
				domain.BloomApply,
			},
		},
	}
}

// Config implements adapter.Adapter.
func (a *Adapter) Config() adapter.Config {
	return a.cfg
}

// ExtractConcepts tokenizes the content into sentences and words, filters
// common and short words, and returns one vocabulary concept per remaining
// word in order of first occurrence.
func (a *Adapter) ExtractConcepts(ctx context.Context, content string) ([]domain.Concept, error) {
	if strings.TrimSpace(content) == "" {
		return nil, adapter.ErrEmptyContent
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentences := splitSentences(content)

	var order []string
	contexts := make(map[string][]string)

	for _, sentence := range sentences {
		for _, raw := range wordPattern.FindAllString(sentence, -1) {
			word := strings.ToLower(raw)
			if !studyable(word) {
				continue
			}
			if _, seen := contexts[word]; !seen {
				order = append(order, word)
			}
			if len(contexts[word]) < maxContexts {
				contexts[word] = append(contexts[word], strings.TrimSpace(sentence))
			}
		}
	}

	concepts := make([]domain.Concept, 0, len(order))
	for _, word := range order {
		c := domain.Concept{
			ConceptID:       "vocab:" + word,
			DomainID:        DomainID,
			Name:            word,
			Description:     fmt.Sprintf("The vocabulary word %q", word),
			DifficultyScore: wordDifficulty(word),
			Examples:        contexts[word],
			Metadata: map[string]string{
				"word":    word,
				"context": contexts[word][0],
			},
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("extracted invalid concept for %q: %w", word, err)
		}
		concepts = append(concepts, c)
	}

	return concepts, nil
}

// GenerateAssessment produces a recognition question at Remember, a cloze at
// Understand, and a production prompt at Apply.
func (a *Adapter) GenerateAssessment(ctx context.Context, concept domain.Concept, level domain.BloomLevel) (*domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	word := concept.Metadata["word"]
	if word == "" {
		word = concept.Name
	}
	usage := concept.Metadata["context"]

	switch level {
	case domain.BloomRemember:
		return a.recognitionQuestion(concept, word, usage)
	case domain.BloomUnderstand:
		return a.clozeQuestion(concept, word, usage)
	case domain.BloomApply:
		return a.productionQuestion(concept, word)
	default:
		return nil, fmt.Errorf("%w: %s for %s", adapter.ErrUnsupportedBloomLevel, level, DomainID)
	}
}

// recognitionQuestion asks the learner to pick the sentence that uses the
// word correctly. The correct option is the word's extraction context; the
// distractors place the word in templated sentences where it cannot fit.
func (a *Adapter) recognitionQuestion(concept domain.Concept, word, usage string) (*domain.Assessment, error) {
	if usage == "" {
		usage = fmt.Sprintf("The author used the word %q deliberately.", word)
	}

	q, err := domain.NewAssessment(
		concept.ConceptID,
		domain.BloomRemember,
		domain.AssessmentMultipleChoice,
		fmt.Sprintf("Which sentence uses the word %q correctly?", word),
	)
	if err != nil {
		return nil, err
	}

	q.Context = usage
	q.Options = []domain.AssessmentOption{
		{
			Text:        usage,
			IsCorrect:   true,
			Explanation: fmt.Sprintf("This is how %q appeared in the passage.", word),
		},
		{Text: fmt.Sprintf("She poured a glass of %s before dinner.", word)},
		{Text: fmt.Sprintf("The %s barked at the mail carrier all morning.", word)},
		{Text: fmt.Sprintf("He parked the %s in the garage overnight.", word)},
	}
	q.ExpectedAnswer = usage
	return q, nil
}

// clozeQuestion blanks the word out of its context sentence.
func (a *Adapter) clozeQuestion(concept domain.Concept, word, usage string) (*domain.Assessment, error) {
	if usage == "" {
		return nil, fmt.Errorf("%w: no context sentence for %q", adapter.ErrUnsupportedBloomLevel, word)
	}

	blankPattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("building cloze pattern for %q: %w", word, err)
	}
	blanked := blankPattern.ReplaceAllString(usage, "_____")

	q, err := domain.NewAssessment(
		concept.ConceptID,
		domain.BloomUnderstand,
		domain.AssessmentFillInBlank,
		fmt.Sprintf("Fill in the blank: %s", blanked),
	)
	if err != nil {
		return nil, err
	}

	q.Context = usage
	q.ExpectedAnswer = word
	q.Hints = []string{fmt.Sprintf("The word starts with %q and has %d letters.", string(word[0]), len(word))}
	return q, nil
}

// productionQuestion asks the learner to use the word in an original sentence.
func (a *Adapter) productionQuestion(concept domain.Concept, word string) (*domain.Assessment, error) {
	q, err := domain.NewAssessment(
		concept.ConceptID,
		domain.BloomApply,
		domain.AssessmentFreeResponse,
		fmt.Sprintf("Write an original sentence that uses the word %q correctly.", word),
	)
	if err != nil {
		return nil, err
	}

	q.Rubric = fmt.Sprintf(
		"The sentence must contain the word %q, be grammatically complete, and use the word with its actual meaning rather than as filler.",
		word,
	)
	if len(concept.Examples) > 0 {
		q.ExpectedAnswer = concept.Examples[0]
	}
	return q, nil
}

// studyable reports whether a token is worth turning into a vocabulary
// concept.
func studyable(word string) bool {
	if len(word) < minWordLength {
		return false
	}
	if _, common := commonWords[word]; common {
		return false
	}
	return true
}

// splitSentences breaks prose into rough sentences. Abbreviation handling is
// deliberately naive; extraction only needs a usable context window, not a
// linguistically exact split.
func splitSentences(content string) []string {
	matches := sentencePattern.FindAllString(content, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// wordDifficulty estimates how hard a word is from its length and syllable
// count, normalized to [0,1]. Longer, more polysyllabic words score higher.
func wordDifficulty(word string) float64 {
	lengthScore := float64(len(word)-minWordLength) / 10.0
	syllableScore := float64(countSyllables(word)-1) / 5.0

	d := 0.2 + 0.5*lengthScore + 0.3*syllableScore
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	return d
}

// countSyllables approximates syllables by counting vowel groups.
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if count == 0 {
		count = 1
	}
	return count
}
