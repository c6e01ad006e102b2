package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

func TestDefaultSignatures_Parse(t *testing.T) {
	sigs, err := application.DefaultSignatures()

	require.NoError(t, err)
	require.NotEmpty(t, sigs)
	assert.Equal(t, "python-missing-module", sigs[0].Name)
	for _, s := range sigs {
		assert.NotEmpty(t, s.Name)
		assert.NotNil(t, s.Pattern, s.Name)
		assert.NotEmpty(t, s.Summary, s.Name)
	}
}

func TestParseSignatures_PreservesOrderAndDefaults(t *testing.T) {
	data := []byte(`
signatures:
  - name: b
    pattern: beta
  - name: a
    category: syntax
    pattern: alpha
    summary: found alpha
`)

	sigs, err := application.ParseSignatures(data)

	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, "b", sigs[0].Name)
	assert.Equal(t, model.CategoryRuntime, sigs[0].Category)
	assert.Equal(t, "b", sigs[0].Summary)
	assert.Equal(t, "a", sigs[1].Name)
	assert.Equal(t, model.CategorySyntax, sigs[1].Category)
}

func TestParseSignatures_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty list", "signatures: []"},
		{"not yaml", "signatures: [unterminated"},
		{"missing name", "signatures:\n  - pattern: x"},
		{"missing pattern", "signatures:\n  - name: x"},
		{"bad regex", "signatures:\n  - name: x\n    pattern: '(unclosed'"},
		{"duplicate", "signatures:\n  - name: x\n    pattern: a\n  - name: x\n    pattern: b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := application.ParseSignatures([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadSignatures_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signatures:\n  - name: only\n    pattern: boom\n"), 0o600))

	sigs, err := application.LoadSignatures(path)

	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "only", sigs[0].Name)
}

func TestLoadSignatures_EmptyPathUsesDefaults(t *testing.T) {
	sigs, err := application.LoadSignatures("")
	require.NoError(t, err)

	defaults, err := application.DefaultSignatures()
	require.NoError(t, err)
	assert.Len(t, sigs, len(defaults))
}

func TestLoadSignatures_MissingFile(t *testing.T) {
	_, err := application.LoadSignatures(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
