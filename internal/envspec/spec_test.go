package envspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() Spec {
	return Spec{
		BaseImage:   "python:{version}-slim",
		Interpreter: "3.10",
		SystemPackages: []SystemPackage{
			{Name: "gcc"},
			{Name: "gmsh", Optional: true},
		},
		ManifestPath: "requirements.txt",
		WorkDir:      "/opt/project",
	}
}

func TestSpec_ForInterpreter(t *testing.T) {
	spec := validSpec()
	spec.Interpreter = ""

	bound := spec.ForInterpreter("3.11")

	assert.Equal(t, "python:3.11-slim", bound.BaseImage)
	assert.Equal(t, "3.11", bound.Interpreter)
	// Source spec is unchanged
	assert.Equal(t, "python:{version}-slim", spec.BaseImage)
}

func TestSpec_Validate(t *testing.T) {
	require.NoError(t, validSpec().ForInterpreter("3.10").Validate())
}

func TestSpec_Validate_EmptyBaseImage(t *testing.T) {
	spec := validSpec()
	spec.BaseImage = ""
	assert.Error(t, spec.Validate())
}

func TestSpec_Validate_UnresolvedPlaceholder(t *testing.T) {
	spec := validSpec()
	spec.Interpreter = ""
	assert.Error(t, spec.Validate())
}

func TestSpec_Validate_EmptyWorkDir(t *testing.T) {
	spec := validSpec()
	spec.WorkDir = ""
	assert.Error(t, spec.Validate())
}

func TestSpec_Validate_EmptySystemPackageName(t *testing.T) {
	spec := validSpec()
	spec.SystemPackages = append(spec.SystemPackages, SystemPackage{Name: "  "})
	assert.Error(t, spec.Validate())
}

func TestSpec_SystemPackagePartition(t *testing.T) {
	spec := validSpec()

	assert.Equal(t, []string{"gcc"}, spec.RequiredSystemPackages())
	assert.Equal(t, []string{"gmsh"}, spec.OptionalSystemPackages())
}
