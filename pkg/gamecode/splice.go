// Package gamecode rewrites the visual configuration block embedded in a
// game template's source. Templates declare their configuration as
//
//	const config = { ... };
//
// and ReplaceConfig swaps the first such declaration for a new one. The
// declaration span is located structurally (balanced-brace scan aware of
// string literals), not with a lazy regex, so nested objects inside the
// config do not truncate the match.
package gamecode

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoConfigBlock is returned when the original code contains no config
// declaration to replace.
var ErrNoConfigBlock = errors.New("no config declaration found in game code")

var declStart = regexp.MustCompile(`const\s+config\s*=\s*\{`)

// HasConfig reports whether the code contains a complete config declaration.
func HasConfig(code string) bool {
	_, _, ok := findConfigSpan(code)
	return ok
}

// ReplaceConfig replaces the first config declaration in code with
// newConfig. newConfig may be a full declaration, a bare object literal, or
// arbitrary text surrounding an object literal; it is normalized into a
// proper declaration before splicing. Returns ErrNoConfigBlock if the code
// has no declaration, in which case the code is returned unmodified.
func ReplaceConfig(code, newConfig string) (string, error) {
	start, end, ok := findConfigSpan(code)
	if !ok {
		return code, ErrNoConfigBlock
	}
	return code[:start] + NormalizeDeclaration(newConfig) + code[end:], nil
}

// NormalizeDeclaration coerces generated text into a well-formed
// `const config = {...};` declaration. If the text already is one, it is
// trimmed to exactly the declaration span. Otherwise the first balanced
// object literal is extracted and re-wrapped; failing that, the raw text is
// wrapped directly as a best-effort fallback.
func NormalizeDeclaration(text string) string {
	trimmed := strings.TrimSpace(text)

	if start, end, ok := findConfigSpan(trimmed); ok {
		return trimmed[start:end]
	}
	if obj, ok := extractObject(trimmed); ok {
		return "const config = " + obj + ";"
	}

	decl := "const config = " + trimmed
	if !strings.HasSuffix(decl, ";") {
		decl += ";"
	}
	return decl
}

// findConfigSpan locates the first complete config declaration and returns
// the [start, end) byte span including the trailing semicolon when present.
func findConfigSpan(code string) (int, int, bool) {
	loc := declStart.FindStringIndex(code)
	if loc == nil {
		return 0, 0, false
	}

	braceStart := loc[1] - 1 // the opening brace matched by the pattern
	objEnd, ok := scanBalanced(code, braceStart)
	if !ok {
		return 0, 0, false
	}

	end := objEnd
	for end < len(code) && (code[end] == ' ' || code[end] == '\t') {
		end++
	}
	if end < len(code) && code[end] == ';' {
		end++
	} else {
		end = objEnd
	}
	return loc[0], end, true
}

// scanBalanced walks from the opening brace at start to its matching close,
// skipping brace characters inside string literals and comments. Returns the
// index just past the closing brace.
func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	i := start
	for i < len(s) {
		c := s[i]
		switch c {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		case '\'', '"', '`':
			end, ok := skipString(s, i)
			if !ok {
				return 0, false
			}
			i = end
		case '/':
			if i+1 < len(s) && s[i+1] == '/' {
				for i < len(s) && s[i] != '\n' {
					i++
				}
			} else if i+1 < len(s) && s[i+1] == '*' {
				idx := strings.Index(s[i+2:], "*/")
				if idx < 0 {
					return 0, false
				}
				i += 2 + idx + 2
			} else {
				i++
			}
		default:
			i++
		}
	}
	return 0, false
}

// skipString advances past a quoted literal starting at i, honoring
// backslash escapes. Returns the index just past the closing quote.
func skipString(s string, i int) (int, bool) {
	quote := s[i]
	i++
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1, true
		default:
			i++
		}
	}
	return 0, false
}

// extractObject returns the first balanced brace-delimited literal in s.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end, ok := scanBalanced(s, start)
	if !ok {
		return "", false
	}
	return s[start:end], true
}
