package builder

import (
	"fmt"
	"strings"
)

// Cause classifies why an environment build failed. Each cause is a distinct,
// reportable condition; all of them abort the run before any check executes.
type Cause string

const (
	// CauseRegistryUnreachable: the OS package mirror or language package
	// registry could not be reached
	CauseRegistryUnreachable Cause = "registry_unreachable"

	// CauseUnresolvable: a requirement could not be resolved to an
	// installable artifact (not found, or no version satisfies the
	// constraint for this interpreter)
	CauseUnresolvable Cause = "unresolvable"

	// CauseSourceFetch: cloning the target project source failed
	// (unreachable remote or invalid ref)
	CauseSourceFetch Cause = "source_fetch"

	// CauseManifest: the dependency manifest could not be read or parsed
	CauseManifest Cause = "manifest"

	// CausePhaseFailed: a build phase failed for a reason that does not
	// match a more specific cause
	CausePhaseFailed Cause = "phase_failed"
)

// BuildError is a fatal environment build failure. It carries the failing
// phase and classified cause so the report sink can surface each failure
// condition distinctly.
type BuildError struct {
	Cause  Cause
	Phase  string
	Detail string
	Err    error
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("environment build failed in phase %s (%s)", e.Phase, e.Cause)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// networkMarkers appear in package-manager and git output when the failure is
// connectivity rather than resolution.
var networkMarkers = []string{
	"Could not resolve host",
	"Temporary failure in name resolution",
	"Temporary failure resolving",
	"Connection timed out",
	"Network is unreachable",
	"Failed to fetch",
	"Could not fetch URL",
	"connection reset by peer",
}

// unresolvableMarkers appear when the registry answered but no artifact
// satisfies the request.
var unresolvableMarkers = []string{
	"No matching distribution found",
	"Could not find a version that satisfies",
	"Unable to locate package",
	"Requires-Python",
}

// classify maps a failed phase's output to a build cause. The source-fetch
// phase always classifies as CauseSourceFetch; other phases distinguish
// connectivity from resolution failures.
func classify(phase, output string) Cause {
	if phase == phaseSourceFetch {
		return CauseSourceFetch
	}
	for _, marker := range networkMarkers {
		if strings.Contains(output, marker) {
			return CauseRegistryUnreachable
		}
	}
	for _, marker := range unresolvableMarkers {
		if strings.Contains(output, marker) {
			return CauseUnresolvable
		}
	}
	return CausePhaseFailed
}

// retryable reports whether a cause is worth retrying with backoff.
// Only connectivity failures are transient.
func retryable(cause Cause) bool {
	return cause == CauseRegistryUnreachable
}
