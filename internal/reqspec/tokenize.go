package reqspec

import (
	"fmt"
	"strings"
)

// MalformedError reports a directive line that could not be parsed. It is a
// structured diagnostic surfaced to the caller, never a crash, and is always
// raised before any environment mutation takes place.
type MalformedError struct {
	Source string
	Line   int
	Msg    string
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

// tokenize splits a directive argument string into tokens using shell-like
// rules: whitespace separates tokens, single and double quotes group them.
func tokenize(source string, line int, text string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	var quote rune

	for _, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, &MalformedError{Source: source, Line: line, Msg: fmt.Sprintf("unterminated %c-quoted token", quote)}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
