// Package artifact implements the ArtifactWriter port on the local filesystem.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ArtifactWriter = (*FileWriter)(nil)

// FileWriter writes artifacts to the paths they carry. Each file is replaced
// atomically so the IDE never opens a half-written prompt.
type FileWriter struct{}

// NewFileWriter creates a FileWriter.
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// Write replaces the prompt and error-detail files.
func (w *FileWriter) Write(artifacts model.ArtifactSet) error {
	if err := writeFile(artifacts.ErrorDetail.Path, artifacts.ErrorDetail.Content); err != nil {
		return err
	}
	return writeFile(artifacts.Prompt.Path, artifacts.Prompt.Content)
}

func writeFile(path, content string) error {
	if path == "" {
		return fmt.Errorf("artifact path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}
