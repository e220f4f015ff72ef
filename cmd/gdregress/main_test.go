package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/gdregression/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n0,3\n1,5\n2,7\n3,9\n"), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(prev) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFitCommand(t *testing.T) {
	out, err := execute(t, "fit",
		"--dataset", writeDataset(t),
		"--alpha", "0.05",
		"--epochs", "200",
		"--example", "10",
		"--no-plots",
		"--log-level", "error",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "== raw")
	assert.Contains(t, out, "predictions:")
	assert.NotContains(t, out, "plots:")
}

func TestRunCommand(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "plots")
	out, err := execute(t, "run",
		"--dataset", writeDataset(t),
		"--alpha", "0.05",
		"--epochs", "20",
		"--example", "1,2",
		"--out", outDir,
		"--format", "svg",
		"--log-level", "error",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "== raw")
	assert.Contains(t, out, "== normalized")
	assert.FileExists(t, filepath.Join(outDir, "normalized_cost.svg"))
}

func TestCommand_InvalidFlags(t *testing.T) {
	_, err := execute(t, "fit", "--dataset", writeDataset(t), "--alpha=-1", "--no-plots")
	assert.Error(t, err)

	_, err = execute(t, "run", "--dataset", writeDataset(t), "--log-format", "xml", "--no-plots")
	assert.Error(t, err)
}
