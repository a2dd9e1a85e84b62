// Package testutil provides a harness for end-to-end tests: it writes
// manifests to a temporary directory, runs the application against them and
// captures logs, printed output and generated files.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/hsbindgen/internal/app"
	"github.com/specialistvlad/hsbindgen/internal/hcl"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	LogOutput string
	Stdout    string
	Err       error
	OutDir    string
	App       *app.App
}

// ReadOutput returns the content of a generated file, relative to OutDir.
func (r *HarnessResult) ReadOutput(t *testing.T, rel string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(r.OutDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(content)
}

// RunApp writes files (relative path -> content) below a temporary
// `manifests` directory and runs the application on it. configure, when not
// nil, may adjust the configuration before it is validated.
func RunApp(t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, files, configure)
}

// RunAppWithContext is RunApp with a caller-provided context.
func RunAppWithContext(ctx context.Context, t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	manifestDir := filepath.Join(tmpDir, "manifests")
	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(manifestDir, 0o755))

	for name, content := range files {
		filePath := filepath.Join(manifestDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg := app.Config{
		ManifestPaths: []string{manifestDir},
		OutDir:        outDir,
		OnError:       "fail",
		LogLevel:      "debug",
		LogFormat:     "text",
		WorkerCount:   4,
	}
	if configure != nil {
		configure(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	stdout := &SafeBuffer{}
	testApp := app.NewApp(stdout, logBuffer, appConfig, hcl.NewLoader())
	runErr := testApp.Run(ctx)

	if os.Getenv("HSBINDGEN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Stdout:    stdout.String(),
		Err:       runErr,
		OutDir:    outDir,
		App:       testApp,
	}
}
