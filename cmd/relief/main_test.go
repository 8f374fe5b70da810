package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDoc = `
zones:
  - {name: Norte, priority: 90, population: 200}
  - {name: Sur, priority: 65, population: 100}
  - {name: Este, priority: 20, population: 50}
routes:
  - {origin: Centro, destination: Norte, weight: 5}
  - {origin: Norte, destination: Sur, weight: 3}
  - {origin: Centro, destination: Sur, weight: 10}
resources:
  - {name: agua, quantity: 500}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(file, []byte(scenarioDoc), 0o600))
	cfgFile := filepath.Join(dir, "relief.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("logger:\n  level: error\n"), 0o600))

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgFile, "--scenario", file}, args...))
	err := cmd.Execute()

	return out.String(), err
}

func TestRouteCmd(t *testing.T) {
	out, err := run(t, "route", "Centro", "Sur")
	require.NoError(t, err)
	assert.Contains(t, out, "Centro → Norte → Sur")
	assert.Contains(t, out, "cost 8, 2 hops")

	out, err = run(t, "route", "Centro", "Este")
	require.NoError(t, err)
	assert.Contains(t, out, "No route from Centro to Este")

	out, err = run(t, "route", "Centro", "Sur", "--closed-at", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "No route", "every route is closed at 5")

	_, err = run(t, "route", "Centro", "Atlantis")
	require.Error(t, err)

	_, err = run(t, "route", "Centro")
	require.Error(t, err)
}

func TestEvacuateCmd(t *testing.T) {
	out, err := run(t, "evacuate", "--begin", "1", "--team", "Alfa")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled 2 urgent zones")
	assert.Contains(t, out, "1 pending, 1 in progress, 0 completed")
	assert.Contains(t, out, "team=Alfa")
}

func TestDistributeCmd(t *testing.T) {
	out, err := run(t, "distribute", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "Centro Principal")
	assert.Contains(t, out, "Assigned to leaves: 300")

	out, err = run(t, "distribute", "175", "--weighted")
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned to leaves: 175")

	_, err = run(t, "distribute", "lots")
	require.Error(t, err)
	_, err = run(t, "distribute", "-5")
	require.Error(t, err)
}

func TestDistributeCmd_Resource(t *testing.T) {
	out, err := run(t, "distribute", "300", "--resource", "agua")
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned to leaves: 300")
	assert.Contains(t, out, "agua: 200 of 500 units left")

	_, err = run(t, "distribute", "600", "--resource", "agua")
	require.Error(t, err)
}

func TestResourcesCmd(t *testing.T) {
	out, err := run(t, "resources")
	require.NoError(t, err)
	assert.Contains(t, out, "agua")
	assert.Contains(t, out, "500 available")
}

func TestExecute_PrintsErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(file, []byte(scenarioDoc), 0o600))

	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"distribute", "abc"}, `invalid quantity "abc"`},
		{[]string{"distribute", "--", "-5"}, "non-negative"},
		{[]string{"route", "Centro", "Atlantis"}, "Atlantis"},
	} {
		var out, errOut bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs(append([]string{"--scenario", file, "--log-level", "error"}, tc.args...))

		assert.Equal(t, 1, execute(context.Background(), cmd), "%v", tc.args)
		assert.Contains(t, errOut.String(), "Error: ", "%v", tc.args)
		assert.Contains(t, errOut.String(), tc.want, "%v", tc.args)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--scenario", file, "--log-level", "error", "route", "Centro", "Sur"})
	assert.Zero(t, execute(context.Background(), cmd))
}

func TestExampleScenario(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"--scenario", "../../examples/scenario.yaml", "--log-level", "error",
		"route", "Centro", "Puerto Bajo", "--closed-at", "500",
	})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Centro → San Roque → Barrio Ribera → Puerto Bajo")
	assert.Contains(t, out.String(), "cost 16")
}

func TestBadConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "route", "a", "b"})
	require.Error(t, cmd.Execute())
}
