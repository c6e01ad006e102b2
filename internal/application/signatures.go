package application

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

//go:embed signatures.yaml
var defaultSignaturesYAML []byte

// signatureFile is the on-disk shape of a signature list.
type signatureFile struct {
	Signatures []signatureEntry `yaml:"signatures"`
}

type signatureEntry struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`
	Summary  string `yaml:"summary"`
	Hint     string `yaml:"hint"`
}

// DefaultSignatures returns the built-in signature list.
func DefaultSignatures() ([]model.Signature, error) {
	return ParseSignatures(defaultSignaturesYAML)
}

// LoadSignatures reads a signature list from a YAML file. An empty path
// returns the built-in list.
func LoadSignatures(path string) ([]model.Signature, error) {
	if path == "" {
		return DefaultSignatures()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signatures file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read signatures file %s: %w", path, err)
	}

	sigs, err := ParseSignatures(data)
	if err != nil {
		return nil, fmt.Errorf("signatures file %s: %w", path, err)
	}
	return sigs, nil
}

// ParseSignatures decodes and compiles a YAML signature list, preserving order.
func ParseSignatures(data []byte) ([]model.Signature, error) {
	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode signatures: %w", err)
	}
	if len(file.Signatures) == 0 {
		return nil, errors.New("signature list is empty")
	}

	seen := make(map[string]bool, len(file.Signatures))
	sigs := make([]model.Signature, 0, len(file.Signatures))
	for i, entry := range file.Signatures {
		if entry.Name == "" {
			return nil, fmt.Errorf("signature %d: name is required", i)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("signature %q: duplicate name", entry.Name)
		}
		seen[entry.Name] = true

		if entry.Pattern == "" {
			return nil, fmt.Errorf("signature %q: pattern is required", entry.Name)
		}
		re, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("signature %q: compile pattern: %w", entry.Name, err)
		}

		category := model.FailureCategory(entry.Category)
		if category == "" {
			category = model.CategoryRuntime
		}
		summary := entry.Summary
		if summary == "" {
			summary = entry.Name
		}

		sigs = append(sigs, model.Signature{
			Name:     entry.Name,
			Category: category,
			Pattern:  re,
			Summary:  summary,
			Hint:     entry.Hint,
		})
	}

	return sigs, nil
}
