package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/everpath/mastery-api/internal/domain"
)

// markerPattern matches an existing scaffold marker so annotation can skip
// over it. Keeping it first in the combined pattern makes annotation
// idempotent: content that is already marked passes through unchanged.
const markerPattern = `\[\[[^\[\]]*\]\]`

// annotation is the per-concept input to annotate.
type annotation struct {
	concept domain.Concept
	level   domain.ScaffoldLevel
	hint    string
}

// annotate wraps occurrences of each concept's name in scaffold markers
// sized to the concept's level:
//
//	light:    [[name]]
//	moderate: [[name // hint]]
//	heavy:    [[name // hint | description]]
//
// Concepts at level none are left untouched. Matching is case-insensitive on
// word boundaries, and text already inside a marker is never re-marked.
func annotate(content string, annotations []annotation) string {
	for _, a := range annotations {
		if a.level == domain.ScaffoldNone || !a.level.Valid() {
			continue
		}

		re, err := regexp.Compile(markerPattern + `|(?i)\b` + regexp.QuoteMeta(a.concept.Name) + `\b`)
		if err != nil {
			continue
		}

		marker := a
		content = re.ReplaceAllStringFunc(content, func(match string) string {
			if strings.HasPrefix(match, "[[") {
				return match
			}
			return buildMarker(match, marker)
		})
	}
	return content
}

func buildMarker(occurrence string, a annotation) string {
	switch a.level {
	case domain.ScaffoldLight:
		return fmt.Sprintf("[[%s]]", occurrence)
	case domain.ScaffoldModerate:
		return fmt.Sprintf("[[%s // %s]]", occurrence, sanitizeMarkerText(a.hint))
	default: // heavy
		return fmt.Sprintf("[[%s // %s | %s]]",
			occurrence, sanitizeMarkerText(a.hint), sanitizeMarkerText(a.concept.Description))
	}
}

// sanitizeMarkerText strips the characters that delimit markers so hint and
// description text cannot break the marker syntax.
func sanitizeMarkerText(s string) string {
	s = strings.ReplaceAll(s, "[[", "")
	s = strings.ReplaceAll(s, "]]", "")
	s = strings.ReplaceAll(s, "|", "/")
	return strings.TrimSpace(s)
}
