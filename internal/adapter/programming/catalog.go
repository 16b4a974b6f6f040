package programming

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// catalogEntry is one concept in the embedded catalog. Entries with no
// patterns are detected structurally by the extractor instead of by regex.
type catalogEntry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Difficulty  float64  `yaml:"difficulty"`
	Patterns    []string `yaml:"patterns"`
	Related     []string `yaml:"related"`
	Examples    []string `yaml:"examples"`
	Analogies   []string `yaml:"analogies"`

	compiled []*regexp.Regexp
}

type catalog struct {
	Concepts []catalogEntry `yaml:"concepts"`
}

// loadCatalog parses the embedded catalog and compiles its patterns.
func loadCatalog() (*catalog, error) {
	var c catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parsing concept catalog: %w", err)
	}
	if len(c.Concepts) == 0 {
		return nil, fmt.Errorf("concept catalog is empty")
	}

	for i := range c.Concepts {
		entry := &c.Concepts[i]
		if entry.ID == "" || entry.Name == "" {
			return nil, fmt.Errorf("catalog entry %d is missing id or name", i)
		}
		if entry.Difficulty < 0 || entry.Difficulty > 1 {
			return nil, fmt.Errorf("catalog entry %q has difficulty outside [0,1]", entry.ID)
		}
		for _, p := range entry.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %q has invalid pattern %q: %w", entry.ID, p, err)
			}
			entry.compiled = append(entry.compiled, re)
		}
	}

	return &c, nil
}

// firstMatch returns the byte offset of the entry's earliest pattern match in
// source, or -1 if no pattern matches.
func (e *catalogEntry) firstMatch(source string) int {
	first := -1
	for _, re := range e.compiled {
		loc := re.FindStringIndex(source)
		if loc == nil {
			continue
		}
		if first == -1 || loc[0] < first {
			first = loc[0]
		}
	}
	return first
}
