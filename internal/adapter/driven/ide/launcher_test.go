package ide_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/deployfix/internal/adapter/driven/ide"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

func testArtifacts(dir string) model.ArtifactSet {
	return model.ArtifactSet{
		Prompt:      model.PromptArtifact{Path: filepath.Join(dir, "prompt.md")},
		ErrorDetail: model.ErrorDetailArtifact{Path: filepath.Join(dir, "error.log")},
	}
}

func TestLaunch_MissingExecutable(t *testing.T) {
	dir := t.TempDir()
	l := ide.NewLauncher(filepath.Join(dir, "no-such-ide"))

	_, err := l.Launch(context.Background(), dir, testArtifacts(dir))

	require.Error(t, err)
	assert.ErrorIs(t, err, ide.ErrIDENotFound)
}

func TestLaunch_MissingExecutableOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	l := ide.NewLauncher("deployfix-test-ide-that-does-not-exist")

	_, err := l.Launch(context.Background(), t.TempDir(), testArtifacts(t.TempDir()))

	assert.ErrorIs(t, err, ide.ErrIDENotFound)
}

func TestLaunch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ide.NewLauncher("true").Launch(ctx, t.TempDir(), testArtifacts(t.TempDir()))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLaunch_SpawnsDetachedProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script launcher requires a POSIX shell")
	}

	dir := t.TempDir()
	out := filepath.Join(dir, "args.txt")
	script := filepath.Join(dir, "fake-ide")
	body := "#!/bin/sh\necho \"$@\" > " + out + ".tmp && mv " + out + ".tmp " + out + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	repo := t.TempDir()
	artifacts := testArtifacts(dir)
	l := ide.NewLauncher(script, "--new-window")

	handle, err := l.Launch(context.Background(), repo, artifacts)

	require.NoError(t, err)
	assert.Positive(t, handle.PID)
	assert.Equal(t, script, handle.Executable)
	assert.Equal(t, []string{"--new-window", repo, artifacts.Prompt.Path, artifacts.ErrorDetail.Path}, handle.Args)

	var got []byte
	require.Eventually(t, func() bool {
		got, err = os.ReadFile(out)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, strings.Join(handle.Args, " "), strings.TrimSpace(string(got)))
}
