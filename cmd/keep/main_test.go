package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/app"
)

const keepfile = `upstream:
  chunkSize: 2
  fixture: fixture.yaml
sweepInterval: 0s
`

const fixture = `objects:
  attachments:
    logo: hello
documents:
  workspaces:
    - id: ws1
      fields:
        items: [i1, i2, i3]
  items:
    - id: i1
      fields: {workspace: ws1, status: open}
    - id: i2
      fields: {workspace: ws1, status: closed}
    - id: i3
      fields: {workspace: ws1, status: open}
`

func graftProvider(ctx context.Context) (*app.Components, error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx, graft.DisableCache())
	return c, err
}

func setupWorkspace(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.yaml"), []byte(keepfile), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixture.yaml"), []byte(fixture), 0o600))
	t.Chdir(dir)
	t.Setenv("KEEP_CONFIG", "")
	t.Setenv("KEEP_LOG_FORMAT", "json")
}

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expectedExit int
		expectedOut  string
	}{
		{
			name:         "closed items",
			args:         []string{"query", "ws1", "--closed"},
			expectedExit: 0,
			expectedOut:  "- i2\n",
		},
		{
			name:         "blobs",
			args:         []string{"blobs", "logo"},
			expectedExit: 0,
			expectedOut:  "logo: aGVsbG8=\n",
		},
		{
			name:         "close unknown item",
			args:         []string{"close", "i9"},
			expectedExit: 1,
		},
		{
			name:         "unknown workspace",
			args:         []string{"query", "nope"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupWorkspace(t)

			stdout := new(bytes.Buffer)
			stderr := new(bytes.Buffer)
			exitCode := run(context.Background(), tt.args, stdout, stderr, graftProvider)

			assert.Equal(t, tt.expectedExit, exitCode)
			if tt.expectedOut != "" {
				assert.Equal(t, tt.expectedOut, stdout.String())
			}
		})
	}
}

func TestRun_ProviderError(t *testing.T) {
	stderr := new(bytes.Buffer)
	provider := func(context.Context) (*app.Components, error) {
		return nil, errors.New("boom")
	}

	exitCode := run(context.Background(), []string{"stats"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "Error: boom\n", stderr.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.yaml"), []byte("upstream:\n  chunkSize: 0\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("KEEP_CONFIG", "")
	t.Setenv("KEEP_LOG_FORMAT", "json")

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"stats"}, new(bytes.Buffer), stderr, graftProvider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: ")
}
