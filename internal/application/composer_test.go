package application_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

func TestCompose_Idempotent(t *testing.T) {
	c := newDefaultClassifier(t)
	composer := application.NewComposer("/tmp/artifacts")
	result := c.Classify("ModuleNotFoundError: No module named 'requests'")

	p1, e1, err := composer.Compose(result, "/src/app")
	require.NoError(t, err)
	p2, e2, err := composer.Compose(result, "/src/app")
	require.NoError(t, err)

	assert.Equal(t, []byte(p1.Content), []byte(p2.Content))
	assert.Equal(t, []byte(e1.Content), []byte(e2.Content))
	assert.Equal(t, p1.Path, p2.Path)
}

func TestCompose_Paths(t *testing.T) {
	composer := application.NewComposer("/tmp/artifacts")

	prompt, detail, err := composer.Compose(model.DiagnosticResult{Summary: "x"}, "/src/app")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/artifacts", application.PromptFileName), prompt.Path)
	assert.Equal(t, filepath.Join("/tmp/artifacts", application.ErrorDetailFileName), detail.Path)
	assert.Contains(t, prompt.Content, detail.Path)
}

func TestCompose_MissingDependencyScenario(t *testing.T) {
	c := newDefaultClassifier(t)
	composer := application.NewComposer(t.TempDir())
	log := "Building...\nModuleNotFoundError: No module named 'requests'\n"

	result := c.Classify(log)
	require.Equal(t, model.CategoryDependency, result.Category)

	prompt, detail, err := composer.Compose(result, "/home/dev/shop")

	require.NoError(t, err)
	assert.Contains(t, prompt.Content, "requests")
	assert.Contains(t, prompt.Content, "install")
	assert.Contains(t, prompt.Content, "/home/dev/shop")
	assert.Contains(t, detail.Content, "signature: python-missing-module")
	assert.Contains(t, detail.Content, log)
}

func TestCompose_UnclassifiedScenario(t *testing.T) {
	c := newDefaultClassifier(t)
	composer := application.NewComposer(t.TempDir())
	log := "container exited with code 1\nno further output\n"

	result := c.Classify(log)
	require.Equal(t, model.UnclassifiedSummary, result.Summary)

	prompt, detail, err := composer.Compose(result, "/home/dev/shop")

	require.NoError(t, err)
	assert.Contains(t, prompt.Content, "/home/dev/shop")
	assert.Contains(t, prompt.Content, log)
	assert.Contains(t, prompt.Content, model.UnclassifiedSummary)
	assert.Contains(t, detail.Content, "signature: none")
	assert.Contains(t, detail.Content, log)
}

func TestCompose_EmptyLog(t *testing.T) {
	c := newDefaultClassifier(t)
	composer := application.NewComposer(t.TempDir())

	prompt, _, err := composer.Compose(c.Classify(""), "/repo")

	require.NoError(t, err)
	assert.Contains(t, prompt.Content, "/repo")
	assert.Contains(t, prompt.Content, "unclassified failure")
}

func TestComposeWithCommit_IncludesFirstLineOfMessage(t *testing.T) {
	composer := application.NewComposer(t.TempDir())
	commit := &model.CommitInfo{SHA: "abc123", Author: "alice", Message: "Add client\n\nLong body"}

	prompt, _, err := composer.ComposeWithCommit(model.DiagnosticResult{Summary: "x"}, "/repo", commit)

	require.NoError(t, err)
	assert.Contains(t, prompt.Content, "- Commit: abc123 by alice: Add client")
	assert.NotContains(t, prompt.Content, "Long body")
	assert.Equal(t, "Add client\n\nLong body", commit.Message)
}
