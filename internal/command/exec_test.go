package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.sh")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestExec_Success(t *testing.T) {
	script := tempScript(t, "#!/bin/sh\necho '0 upgraded, 0 newly installed, 0 to remove and 0 not upgraded.'\n")

	res, err := NewExec().Run(context.Background(), []string{script})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "0 not upgraded.")
}

func TestExec_Args(t *testing.T) {
	script := tempScript(t, "#!/bin/sh\necho \"$1|$2\"\n")

	res, err := NewExec().Run(context.Background(), []string{script, "upgrade", "--no-act"})
	require.NoError(t, err)
	assert.Equal(t, "upgrade|--no-act\n", res.Stdout)
}

func TestExec_NonZeroExit(t *testing.T) {
	script := tempScript(t, "#!/bin/sh\necho 'E: Could not get lock' >&2\nexit 100\n")

	res, err := NewExec().Run(context.Background(), []string{script})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 100, exitErr.Code)
	assert.Equal(t, "E: Could not get lock", exitErr.Stderr)
	assert.Contains(t, err.Error(), "exited with status 100")
	assert.Equal(t, 100, ExitCode(err))
	require.NotNil(t, res)
	assert.Equal(t, 100, res.ExitCode)
}

func TestExec_NotFound(t *testing.T) {
	_, err := NewExec().Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
}

func TestExec_Empty(t *testing.T) {
	_, err := NewExec().Run(context.Background(), nil)
	assert.EqualError(t, err, "empty command")
}

func TestExec_CLocale(t *testing.T) {
	script := tempScript(t, "#!/bin/sh\necho \"$LC_ALL\"\n")

	res, err := NewExec().Run(context.Background(), []string{script})
	require.NoError(t, err)
	assert.Equal(t, "C\n", res.Stdout)
}

func TestExec_Cancelled(t *testing.T) {
	script := tempScript(t, "#!/bin/sh\nsleep 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewExec().Run(ctx, []string{script})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
