package reqspec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	requirementsDirective = "::requirements"
	searchPathDirective   = "::searchpath"
)

// ExtractFromScript reads the build script at path and extracts the
// requirement spec from its leading comment block.
func ExtractFromScript(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read build script: %w", err)
	}
	defer f.Close()
	return Extract(path, f)
}

// Extract scans the leading contiguous block of line comments of a build
// script. Within that block it recognizes the "::requirements" directive
// (requirement tokens plus --index-url / --extra-index-url flags, in order)
// and the "::searchpath" directive (project-relative paths). Directive text
// anywhere after the first non-comment line is ignored.
func Extract(source string, r io.Reader) (*Spec, error) {
	spec := &Spec{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(text, "//") {
			break
		}
		comment := strings.TrimSpace(strings.TrimPrefix(text, "//"))
		switch {
		case strings.HasPrefix(comment, requirementsDirective):
			args := strings.TrimPrefix(comment, requirementsDirective)
			tokens, err := tokenize(source, line, args)
			if err != nil {
				return nil, err
			}
			if err := spec.addRequirementTokens(source, line, tokens); err != nil {
				return nil, err
			}
		case strings.HasPrefix(comment, searchPathDirective):
			args := strings.TrimPrefix(comment, searchPathDirective)
			tokens, err := tokenize(source, line, args)
			if err != nil {
				return nil, err
			}
			spec.SearchPaths = append(spec.SearchPaths, tokens...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read build script: %w", err)
	}
	return spec, nil
}

// addRequirementTokens folds a tokenized "::requirements" directive into the
// spec, splitting out installer index flags from requirement tokens.
func (s *Spec) addRequirementTokens(source string, line int, tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		switch {
		case token == "--index-url" || token == "--extra-index-url":
			if i+1 >= len(tokens) {
				return &MalformedError{Source: source, Line: line, Msg: fmt.Sprintf("%s requires a value", token)}
			}
			i++
			s.setIndexFlag(token, tokens[i])
		case strings.HasPrefix(token, "--index-url=") || strings.HasPrefix(token, "--extra-index-url="):
			name, value, _ := strings.Cut(token, "=")
			s.setIndexFlag(name, value)
		case strings.HasPrefix(token, "--"):
			return &MalformedError{Source: source, Line: line, Msg: fmt.Sprintf("unsupported installer flag %q", token)}
		default:
			s.Requirements = append(s.Requirements, token)
		}
	}
	return nil
}

func (s *Spec) setIndexFlag(name, value string) {
	if name == "--index-url" {
		s.IndexURL = value
	} else {
		s.ExtraIndexURLs = append(s.ExtraIndexURLs, value)
	}
}
