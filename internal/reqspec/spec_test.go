package reqspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintStable(t *testing.T) {
	a := &Spec{Requirements: []string{"pkg-a==1.0"}, SearchPaths: []string{"build-support"}}
	b := &Spec{Requirements: []string{"pkg-a==1.0"}, SearchPaths: []string{"build-support"}}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintSensitivity(t *testing.T) {
	base := &Spec{Requirements: []string{"pkg-a==1.0"}}
	variants := []*Spec{
		{Requirements: []string{"pkg-a==1.1"}},
		{Requirements: []string{"pkg-a==1.0", "pkg-b==2.0"}},
		{Requirements: []string{"pkg-a==1.0"}, IndexURL: "https://idx.example.com"},
		{Requirements: []string{"pkg-a==1.0"}, ExtraIndexURLs: []string{"https://idx.example.com"}},
		{Requirements: []string{"pkg-a==1.0"}, SearchPaths: []string{"x"}},
	}
	for _, v := range variants {
		assert.NotEqual(t, base.Fingerprint(), v.Fingerprint())
	}
}

// Moving a value between sections must not collide, e.g. an index URL and an
// extra index URL with the same value are different specs.
func TestFingerprintSectionBoundaries(t *testing.T) {
	a := &Spec{IndexURL: "https://idx.example.com"}
	b := &Spec{ExtraIndexURLs: []string{"https://idx.example.com"}}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestLocalRequirementDetection(t *testing.T) {
	assert.True(t, IsLocalRequirement("tool@./vendor/tool"))
	assert.False(t, IsLocalRequirement("pkg-a==1.0"))

	spec := &Spec{Requirements: []string{"pkg-a==1.0", "tool@./vendor/tool"}}
	assert.True(t, spec.HasLocalRequirements())
	spec = &Spec{Requirements: []string{"pkg-a==1.0"}}
	assert.False(t, spec.HasLocalRequirements())
}

func TestWithImpliedPublished(t *testing.T) {
	spec := &Spec{Requirements: []string{"pkg-a==1.0"}}
	got, err := spec.WithImplied("0.3.1", false, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg-a==1.0", "krakenw>=0.3.1,<0.4.0"}, got.Requirements)
	// The source spec stays untouched.
	assert.Equal(t, []string{"pkg-a==1.0"}, spec.Requirements)
}

func TestWithImpliedPublishedPostOne(t *testing.T) {
	spec := &Spec{}
	got, err := spec.WithImplied("1.2.3", false, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"krakenw>=1.2.3,<2.0.0"}, got.Requirements)
}

func TestWithImpliedDevelop(t *testing.T) {
	spec := &Spec{}
	got, err := spec.WithImplied("0.3.1", true, "/src/krakenw")
	require.NoError(t, err)
	assert.Equal(t, []string{"krakenw@/src/krakenw"}, got.Requirements)
}

func TestWithImpliedDevelopWithoutRoot(t *testing.T) {
	spec := &Spec{}
	_, err := spec.WithImplied("0.3.1", true, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KRAKEN_DEVELOP_ROOT")
}
