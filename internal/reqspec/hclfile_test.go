package reqspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReqFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, RequirementsFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseHCLFile(t *testing.T) {
	path := writeReqFile(t, `
requirements {
  packages         = ["pkg-a==1.0", "tool@./vendor/tool"]
  index_url        = "https://pkg.example.com/simple"
  extra_index_urls = ["https://mirror.example.com"]
  search_path      = ["build-support"]
}
`)
	spec, err := ParseHCLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg-a==1.0", "tool@./vendor/tool"}, spec.Requirements)
	assert.Equal(t, "https://pkg.example.com/simple", spec.IndexURL)
	assert.Equal(t, []string{"https://mirror.example.com"}, spec.ExtraIndexURLs)
	assert.Equal(t, []string{"build-support"}, spec.SearchPaths)
}

func TestParseHCLFileInvalidSyntax(t *testing.T) {
	path := writeReqFile(t, `requirements { packages = [ `)
	_, err := ParseHCLFile(path)
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestParseHCLFileWrongAttributeType(t *testing.T) {
	path := writeReqFile(t, `
requirements {
  packages = "pkg-a==1.0"
}
`)
	_, err := ParseHCLFile(path)
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Msg, "packages")
}

func TestParseHCLFileRejectsUnknownAttributes(t *testing.T) {
	path := writeReqFile(t, `
requirements {
  pacakges = ["pkg-a==1.0"]
}
`)
	_, err := ParseHCLFile(path)
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestExtractForProjectPrefersRequirementsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ScriptFilename), []byte("// ::requirements from-script==1.0\npackage main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, RequirementsFilename), []byte("requirements {\n  packages = [\"from-hcl==1.0\"]\n}\n"), 0644))

	spec, err := ExtractForProject(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"from-hcl==1.0"}, spec.Requirements)
}

func TestExtractForProjectWithoutScript(t *testing.T) {
	_, err := ExtractForProject(t.TempDir())
	assert.ErrorIs(t, err, ErrNoBuildScript)
}
