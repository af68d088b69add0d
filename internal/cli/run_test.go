package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riggerci/rigger/internal/config"
	"github.com/riggerci/rigger/internal/trigger"
)

func runTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Project.Source.URL = "https://github.com/pmgteam/porous-sim.git"
	cfg.Project.Source.Ref = "develop"
	return cfg
}

func TestResolveMatrixConfig_ManualDefaultsToFull(t *testing.T) {
	cfg := runTestConfig()

	matrixCfg, err := resolveMatrixConfig(cfg, RunOptions{Trigger: "manual"})
	require.NoError(t, err)

	assert.Equal(t, trigger.SuiteFull, matrixCfg.Suite)
	assert.Equal(t, trigger.KindManual, matrixCfg.TriggerKind)
	assert.Equal(t, cfg.Matrix.Versions, matrixCfg.Versions)
	assert.Equal(t, "https://github.com/pmgteam/porous-sim.git", matrixCfg.Source.URL)
	assert.Equal(t, "develop", matrixCfg.Source.Ref)
}

func TestResolveMatrixConfig_Overrides(t *testing.T) {
	cfg := runTestConfig()

	matrixCfg, err := resolveMatrixConfig(cfg, RunOptions{
		Trigger:  "push",
		Suite:    "dynamic",
		Versions: []string{"3.11"},
		Ref:      "feature/solver",
	})
	require.NoError(t, err)

	assert.Equal(t, trigger.SuiteDynamic, matrixCfg.Suite)
	assert.Equal(t, []string{"3.11"}, matrixCfg.Versions)
	assert.Equal(t, "feature/solver", matrixCfg.Source.Ref)
}

func TestResolveMatrixConfig_PushDefaultsToStatic(t *testing.T) {
	matrixCfg, err := resolveMatrixConfig(runTestConfig(), RunOptions{Trigger: "push"})
	require.NoError(t, err)
	assert.Equal(t, trigger.SuiteStatic, matrixCfg.Suite)
}

func TestResolveMatrixConfig_InvalidSuite(t *testing.T) {
	_, err := resolveMatrixConfig(runTestConfig(), RunOptions{Trigger: "manual", Suite: "partial"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid suite")
}

func TestResolveMatrixConfig_InvalidTrigger(t *testing.T) {
	_, err := resolveMatrixConfig(runTestConfig(), RunOptions{Trigger: "webhook"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown trigger kind")
}

func TestNewApp_RegistersCommands(t *testing.T) {
	app := New()

	var names []string
	for _, cmd := range app.rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"run", "build", "runs", "show", "triggers", "version"} {
		assert.Contains(t, names, want)
	}
}
