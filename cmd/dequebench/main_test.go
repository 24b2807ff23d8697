package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lucasgdosr/segdeque/internal/bench"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCmd(t *testing.T) {
	out, logs, err := runCmd(t, "--ops", "2000", "--window", "100", "--workload", "fifo", "--workload", "window")
	require.NoError(t, err)
	require.Contains(t, out, "segmented")
	require.Contains(t, out, "ring")
	require.Contains(t, out, "window")
	require.NotContains(t, out, "lifo")
	require.Contains(t, logs, "running workloads")
}

func TestRootCmdPool(t *testing.T) {
	_, logs, err := runCmd(t, "--ops", "5000", "--window", "1500",
		"--workload", "fifo", "--impl", "segmented",
		"--pool", "8", "--log-allocs", "--log-level", "debug")
	require.NoError(t, err)
	require.Contains(t, logs, "block allocated")
	require.Contains(t, logs, "block pool")
}

func TestRootCmdDevLog(t *testing.T) {
	out, logs, err := runCmd(t, "--ops", "200", "--window", "10", "--workload", "fifo", "--dev-log")
	require.NoError(t, err)
	require.Contains(t, out, "fifo")
	require.Contains(t, logs, "running workloads")
	require.Contains(t, logs, "workloads")
}

func TestRootCmdConfigFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "dequebench.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("ops: 300\nwindow: 20\nworkload: [lifo]\n"), 0o600))

	out, _, err := runCmd(t, "--config", fn)
	require.NoError(t, err)
	require.Contains(t, out, "lifo")
	require.Contains(t, out, "300")
	require.NotContains(t, out, "fifo")
}

func TestRootCmdErrors(t *testing.T) {
	_, _, err := runCmd(t, "--ops", "10", "--workload", "zigzag")
	require.ErrorIs(t, err, bench.ErrInvalidConfig)

	_, _, err = runCmd(t, "--log-level", "loud")
	require.Error(t, err)

	_, _, err = runCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, _, err = runCmd(t, "extra")
	require.Error(t, err)
}

func TestExecute(t *testing.T) {
	require.NoError(t, execute(context.Background(), []string{"--ops", "100", "--window", "10", "--workload", "random"}))
}
