package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_SourceFetchAlwaysFetchCause(t *testing.T) {
	// Even a connectivity error during clone reports as a fetch failure
	cause := classify(phaseSourceFetch, "fatal: unable to access: Could not resolve host: example.com")
	assert.Equal(t, CauseSourceFetch, cause)
}

func TestClassify_Network(t *testing.T) {
	outputs := []string{
		"W: Failed to fetch http://deb.debian.org/debian/dists/trixie/InRelease",
		"Temporary failure in name resolution",
		"Could not fetch URL https://pypi.org/simple/numpy/",
	}
	for _, output := range outputs {
		assert.Equal(t, CauseRegistryUnreachable, classify(phaseLangPackages, output), output)
	}
}

func TestClassify_Unresolvable(t *testing.T) {
	outputs := []string{
		"ERROR: No matching distribution found for porepy==1.0",
		"ERROR: Could not find a version that satisfies the requirement scipy==99.0",
		"E: Unable to locate package libgmp-devv",
	}
	for _, output := range outputs {
		assert.Equal(t, CauseUnresolvable, classify(phaseSystemPackages, output), output)
	}
}

func TestClassify_Fallback(t *testing.T) {
	assert.Equal(t, CausePhaseFailed, classify(phaseInstall, "error: build backend exploded"))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(CauseRegistryUnreachable))
	assert.False(t, retryable(CauseUnresolvable))
	assert.False(t, retryable(CauseSourceFetch))
	assert.False(t, retryable(CausePhaseFailed))
}

func TestBuildError_Error(t *testing.T) {
	err := &BuildError{Cause: CauseUnresolvable, Phase: phaseLangPackages, Detail: "No matching distribution"}
	assert.Contains(t, err.Error(), "language-packages")
	assert.Contains(t, err.Error(), "unresolvable")
}

func TestBuildError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &BuildError{Cause: CausePhaseFailed, Phase: phaseInstall, Err: inner}
	assert.ErrorIs(t, err, inner)
}
