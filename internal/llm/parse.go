package llm

import (
	"strings"
	"unicode"
)

// ParseContext extracts a leading bracketed context annotation from text.
// It returns the trimmed context and the trimmed remainder. When text does
// not start with "[", the bracket is unclosed, or the context is empty
// ("[]"), it returns an empty context and the input unchanged.
//
// Brackets nest: "[foo [bar] baz] text" yields context "foo [bar] baz".
func ParseContext(text string) (string, string) {
	stripped := strings.TrimLeftFunc(text, unicode.IsSpace)
	if !strings.HasPrefix(stripped, "[") {
		return "", text
	}

	depth := 0

	for i, r := range stripped {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				context := strings.TrimSpace(stripped[1:i])
				if context == "" {
					return "", text
				}

				return context, strings.TrimSpace(stripped[i+1:])
			}
		}
	}

	// No matching closing bracket.
	return "", text
}

// ParseInlineTone checks text for a leading tone directive like "formal:".
// Matching is case-insensitive and follows the declaration order of the
// prefix table. On match it returns the mapped tone key and the remainder
// with the prefix and following whitespace stripped; otherwise it returns
// an empty tone and the input unchanged.
func ParseInlineTone(text string) (string, string) {
	stripped := strings.TrimLeftFunc(text, unicode.IsSpace)
	lower := strings.ToLower(stripped)

	for _, p := range inlinePrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			remaining := strings.TrimLeftFunc(stripped[len(p.prefix):], unicode.IsSpace)

			return p.tone, remaining
		}
	}

	return "", text
}
