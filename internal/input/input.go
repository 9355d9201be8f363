// Package input normalizes pasted or uploaded code into a single in-memory
// snippet with a resolved language.
package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/src-d/enry/v2"

	"github.com/revulabs/revu-cli/internal/analyzer"
	consts "github.com/revulabs/revu-cli/internal/shared/constants"
	sharederrors "github.com/revulabs/revu-cli/internal/shared/errors"
)

// Language values accepted by the collector.
const (
	LangAuto   = "auto"
	LangPython = "python"
	LangOther  = "other"
)

// Collect validates raw code (pasted text or file contents), resolves the
// language, and returns the snippet every analyzer consumes. filename may
// be empty for pasted snippets; language may be empty or "auto" to request
// detection.
func Collect(code []byte, filename, language string) (analyzer.Snippet, error) {
	if len(code) > consts.MaxSnippetBytes {
		return analyzer.Snippet{}, fmt.Errorf("%w: %d bytes (max %d)",
			sharederrors.ErrSnippetTooLarge, len(code), consts.MaxSnippetBytes)
	}

	source := string(sanitize(code))
	if strings.TrimSpace(source) == "" {
		return analyzer.Snippet{}, sharederrors.ErrEmptySnippet
	}

	lang, err := resolveLanguage(source, filename, language)
	if err != nil {
		return analyzer.Snippet{}, err
	}

	name := filename
	if name == "" {
		name = "<input>"
	}

	return analyzer.Snippet{
		Source:   source,
		Language: lang,
		Filename: name,
	}, nil
}

func resolveLanguage(source, filename, language string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case LangPython:
		return LangPython, nil
	case LangOther:
		return LangOther, nil
	case "", LangAuto:
		return DetectLanguage(source, filename), nil
	default:
		return "", fmt.Errorf("%w: %q (want python, other, or auto)",
			sharederrors.ErrUnsupportedLang, language)
	}
}

// DetectLanguage classifies a snippet as python or other. Detection runs
// enry over the filename and content first; bare pasted snippets without a
// filename fall back to a token heuristic.
func DetectLanguage(source, filename string) string {
	name := filename
	if name == "" {
		name = "snippet"
	}
	if lang := enry.GetLanguage(name, []byte(source)); lang == "Python" {
		return LangPython
	}
	if filename == "" && looksLikePython(source) {
		return LangPython
	}
	return LangOther
}

// looksLikePython applies the legacy token heuristic for pasted snippets.
func looksLikePython(source string) bool {
	for _, tok := range []string{"import ", "def ", "class "} {
		if strings.Contains(source, tok) {
			return true
		}
	}
	return false
}

// sanitize strips invalid UTF-8 bytes so uploads with mixed encodings still
// flow through as best-effort text.
func sanitize(code []byte) []byte {
	if utf8.Valid(code) {
		return code
	}
	return []byte(strings.ToValidUTF8(string(code), ""))
}
