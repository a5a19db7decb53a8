package mapping

import (
	"fmt"
	"strings"

	"aquarius/internal/archivesspace"
	"aquarius/internal/language"
)

// LanguageNote derives the language-of-materials note from the source
// language codes. Never published.
func LanguageNote(codes []string) archivesspace.Note {
	normalized := language.Normalize(codes)
	var content string
	if len(normalized) > 1 {
		content = "Materials are in multiple languages"
	} else {
		code := ""
		if len(normalized) == 1 {
			code = normalized[0]
		}
		content = fmt.Sprintf("Materials are in %s", language.DisplayName(code))
	}
	return archivesspace.Note{
		JSONModelType: "note_singlepart",
		Type:          "langmaterial",
		Publish:       false,
		Content:       []string{content},
	}
}

// MultipartNote wraps text into a multipart note with a single published
// text subnote. Returns nil when text is empty, so callers can append
// conditionally.
func MultipartNote(text, noteType string) *archivesspace.Note {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &archivesspace.Note{
		JSONModelType: "note_multipart",
		Type:          noteType,
		Publish:       false,
		Subnotes: []archivesspace.Subnote{{
			Content:       text,
			Publish:       true,
			JSONModelType: "note_text",
		}},
	}
}

// ScopeContentNote builds the scope-and-content note for a description.
func ScopeContentNote(description string) *archivesspace.Note {
	return MultipartNote(description, "scopecontent")
}
