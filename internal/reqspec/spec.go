package reqspec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// ScriptFilename is the root build script of a project.
	ScriptFilename = ".kraken.go"

	// RequirementsFilename is the dedicated requirements file. When present
	// it takes precedence over the script's comment header.
	RequirementsFilename = "kraken.hcl"

	// cliPackage is the name under which the CLI itself is installed into
	// every managed environment.
	cliPackage = "krakenw"
)

// Spec is the requirement specification extracted from a single project.
// It is immutable once extracted.
type Spec struct {
	// Requirements are the ordered requirement tokens, e.g. "pkg-a==1.0" or
	// the local form "tool@./vendor/tool".
	Requirements []string

	// IndexURL replaces the default package index when set.
	IndexURL string

	// ExtraIndexURLs are additional package indexes, in declaration order.
	ExtraIndexURLs []string

	// SearchPaths are project-relative directories prepended to the script's
	// module search path by the process that finally executes the script.
	SearchPaths []string
}

// IsLocalRequirement reports whether a requirement token references a local
// filesystem path ("name@path") instead of a published package.
func IsLocalRequirement(token string) bool {
	return strings.Contains(token, "@")
}

// HasLocalRequirements reports whether any requirement token resolves to a
// local filesystem path.
func (s *Spec) HasLocalRequirements() bool {
	for _, r := range s.Requirements {
		if IsLocalRequirement(r) {
			return true
		}
	}
	return false
}

// Fingerprint returns a stable content hash of the spec. Equal specs yield
// equal fingerprints; changing any token, flag or search path changes it.
func (s *Spec) Fingerprint() string {
	h := sha256.New()
	section := func(name string, values []string) {
		io.WriteString(h, name)
		io.WriteString(h, "\x00")
		for _, v := range values {
			io.WriteString(h, v)
			io.WriteString(h, "\x00")
		}
	}
	section("requirements", s.Requirements)
	section("index_url", []string{s.IndexURL})
	section("extra_index_urls", s.ExtraIndexURLs)
	section("search_paths", s.SearchPaths)
	return hex.EncodeToString(h.Sum(nil))
}

// WithImplied returns a copy of the spec with the implied CLI requirement
// appended, so every managed environment contains the CLI itself.
//
// In develop mode the published package is substituted with a local
// reference to developRoot. The root is an explicit setting; refusing to
// guess it replaces the upstream symlink-walking heuristic.
func (s *Spec) WithImplied(version string, develop bool, developRoot string) (*Spec, error) {
	token, err := impliedRequirement(version, develop, developRoot)
	if err != nil {
		return nil, err
	}
	out := *s
	out.Requirements = append(append([]string(nil), s.Requirements...), token)
	return &out, nil
}

func impliedRequirement(version string, develop bool, developRoot string) (string, error) {
	if develop {
		if developRoot == "" {
			return "", fmt.Errorf("develop mode requires an explicit develop root (set KRAKEN_DEVELOP_ROOT)")
		}
		return cliPackage + "@" + developRoot, nil
	}
	breaking, err := nextBreakingVersion(version)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s>=%s,<%s", cliPackage, version, breaking), nil
}

// nextBreakingVersion returns the lowest future version assumed to carry
// breaking changes. Below 1.0.0 every minor bump may break.
func nextBreakingVersion(version string) (string, error) {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed version %q", version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed version %q", version)
	}
	if major == 0 {
		minor, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", fmt.Errorf("malformed version %q", version)
		}
		return fmt.Sprintf("0.%d.0", minor+1), nil
	}
	return fmt.Sprintf("%d.0.0", major+1), nil
}
