package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var english = display.English.Tags()

// DisplayName returns a human-readable name for an ISO 639 language code
// ("en", "eng", "ger", ...). Returns "Unknown" for empty input and the
// uppercased code when the code cannot be resolved.
func DisplayName(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return "Unknown"
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	name := english.Name(tag)
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}

// Normalize lowercases, trims and deduplicates a list of language codes,
// preserving first-seen order.
func Normalize(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		trimmed := strings.ToLower(strings.TrimSpace(code))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

// Collapse reduces a list of codes to the single code used on flat
// language fields: the lone entry when there is exactly one, "mul" when
// several remain.
func Collapse(codes []string) string {
	normalized := Normalize(codes)
	switch len(normalized) {
	case 0:
		return ""
	case 1:
		return normalized[0]
	default:
		return "mul"
	}
}
