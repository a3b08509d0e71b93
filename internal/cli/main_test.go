package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// cliEnv runs commands against private config and data directories.
type cliEnv struct {
	configDir string
	dataDir   string
}

type result struct {
	stdout string
	stderr string
	code   int
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	t.Setenv("FORMULACALC_LOCALE", "")
	return &cliEnv{configDir: t.TempDir(), dataDir: t.TempDir()}
}

func (e *cliEnv) runContext(ctx context.Context, args ...string) result {
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := Execute(ctx, full, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func (e *cliEnv) run(args ...string) result {
	return e.runContext(context.Background(), args...)
}

// mustRun fails the test unless the command exits successfully.
func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	r := e.run(args...)
	require.Equal(t, exitSuccess, r.code, "%v failed: %s", args, r.stderr)
	return r.stdout
}

// mustRunJSON runs the command with --json and decodes its output.
func mustRunJSON[T any](t *testing.T, e *cliEnv, args ...string) T {
	t.Helper()
	var v T
	out := e.mustRun(t, append([]string{"--json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
