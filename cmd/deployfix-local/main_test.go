package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLocal_MissingRequiredFlags(t *testing.T) {
	_, err := runCmd(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log-file")
	assert.Contains(t, err.Error(), "repo")
}

func TestLocal_RejectsPositionalArgs(t *testing.T) {
	_, err := runCmd(t, "analyze")

	require.Error(t, err)
}

func TestLocal_LogFileMustExist(t *testing.T) {
	_, err := runCmd(t,
		"--log-file", filepath.Join(t.TempDir(), "missing.log"),
		"--repo", t.TempDir(),
		"--no-launch",
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-file")
}

func TestLocal_RepoMustBeDirectory(t *testing.T) {
	logFile := writeLog(t, "boom")

	_, err := runCmd(t, "--log-file", logFile, "--repo", logFile, "--no-launch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLocal_MissingModuleScenario(t *testing.T) {
	logFile := writeLog(t, "Traceback (most recent call last):\nModuleNotFoundError: No module named 'requests'\n")
	repo := t.TempDir()
	out := t.TempDir()

	stdout, err := runCmd(t, "--log-file", logFile, "--repo", repo, "--out", out, "--no-launch")

	require.NoError(t, err)
	assert.Contains(t, stdout, "signature:    python-missing-module")
	assert.Contains(t, stdout, "ide:          skipped")

	prompt, err := os.ReadFile(filepath.Join(out, "deployfix_prompt.md"))
	require.NoError(t, err)
	assert.Contains(t, string(prompt), "requests")
	assert.Contains(t, string(prompt), "install")
	assert.Contains(t, string(prompt), repo)

	detail, err := os.ReadFile(filepath.Join(out, "deployfix_error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(detail), "ModuleNotFoundError: No module named 'requests'")
}

func TestLocal_UnmatchedLogFallsBack(t *testing.T) {
	raw := "step 3 exited with an odd status nobody recognises\n"
	logFile := writeLog(t, raw)
	out := t.TempDir()

	stdout, err := runCmd(t, "--log-file", logFile, "--repo", t.TempDir(), "--out", out, "--no-launch")

	require.NoError(t, err)
	assert.Contains(t, stdout, "signature:    none")

	prompt, err := os.ReadFile(filepath.Join(out, "deployfix_prompt.md"))
	require.NoError(t, err)
	assert.Contains(t, string(prompt), raw)
}

func TestLocal_MissingIDEIsReportedNotFatal(t *testing.T) {
	logFile := writeLog(t, "ModuleNotFoundError: No module named 'requests'\n")
	out := t.TempDir()

	stdout, err := runCmd(t,
		"--log-file", logFile,
		"--repo", t.TempDir(),
		"--out", out,
		"--ide", "deployfix-no-such-ide-binary",
	)

	require.NoError(t, err)
	assert.Contains(t, stdout, "ide:          not opened")
	assert.FileExists(t, filepath.Join(out, "deployfix_prompt.md"))
}

func TestLocal_LaunchesIDE(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the IDE")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-ide")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	logFile := writeLog(t, "ModuleNotFoundError: No module named 'requests'\n")

	stdout, err := runCmd(t, "--log-file", logFile, "--repo", t.TempDir(), "--out", t.TempDir(), "--ide", script)

	require.NoError(t, err)
	assert.Contains(t, stdout, "ide:          opened")
}
