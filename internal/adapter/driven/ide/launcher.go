// Package ide implements the IDELauncher port by spawning a local editor
// executable and detaching from it.
package ide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IDELauncher = (*Launcher)(nil)

// ErrIDENotFound is returned when the configured executable cannot be resolved.
var ErrIDENotFound = errors.New("ide executable not found")

// Launcher starts the configured IDE as `<executable> <repo> <prompt> <error>`.
// The child is released immediately: it is never waited on and may outlive
// this process.
type Launcher struct {
	executable string
	extraArgs  []string
}

// NewLauncher creates a Launcher for executable, which may be a bare name
// resolved through PATH or a path. extraArgs are placed before the repository.
func NewLauncher(executable string, extraArgs ...string) *Launcher {
	return &Launcher{executable: executable, extraArgs: extraArgs}
}

// Launch spawns the IDE on repoPath with both artifacts as files to open.
func (l *Launcher) Launch(ctx context.Context, repoPath string, artifacts model.ArtifactSet) (model.ProcessHandle, error) {
	if err := ctx.Err(); err != nil {
		return model.ProcessHandle{}, err
	}

	resolved, err := exec.LookPath(l.executable)
	if err != nil {
		return model.ProcessHandle{}, fmt.Errorf("%w: %s: %v", ErrIDENotFound, l.executable, err)
	}

	args := make([]string, 0, len(l.extraArgs)+3)
	args = append(args, l.extraArgs...)
	args = append(args, repoPath, artifacts.Prompt.Path, artifacts.ErrorDetail.Path)

	// Not CommandContext: canceling our context must not kill the editor.
	cmd := exec.Command(resolved, args...)
	cmd.Dir = repoPath
	if err := cmd.Start(); err != nil {
		return model.ProcessHandle{}, fmt.Errorf("start %s: %w", resolved, err)
	}

	handle := model.ProcessHandle{
		PID:        cmd.Process.Pid,
		Executable: resolved,
		Args:       args,
	}

	if err := cmd.Process.Release(); err != nil {
		slog.Warn("failed to release ide process", "pid", handle.PID, "error", err)
	}

	return handle, nil
}
