package application

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// Artifact file names inside the artifact directory. Each incident overwrites
// the files of the previous one.
const (
	PromptFileName      = "deployfix_prompt.md"
	ErrorDetailFileName = "deployfix_error.log"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var artifactTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// composeData is the view passed to both artifact templates.
type composeData struct {
	RepoPath        string
	Signature       string
	Category        model.FailureCategory
	Summary         string
	Hint            string
	MatchedLine     string
	RawLog          string
	ErrorDetailPath string
	Commit          *model.CommitInfo
}

// Composer renders the prompt and error-detail artifacts for an incident.
// Output depends only on its inputs, so identical inputs produce
// byte-identical artifacts.
type Composer struct {
	artifactDir string
}

// NewComposer creates a Composer that places artifacts in artifactDir.
func NewComposer(artifactDir string) *Composer {
	return &Composer{artifactDir: artifactDir}
}

// Compose renders the artifacts for result against repoPath.
func (c *Composer) Compose(result model.DiagnosticResult, repoPath string) (model.PromptArtifact, model.ErrorDetailArtifact, error) {
	return c.ComposeWithCommit(result, repoPath, nil)
}

// ComposeWithCommit is Compose with the deployment's source commit included
// in the prompt. commit may be nil.
func (c *Composer) ComposeWithCommit(result model.DiagnosticResult, repoPath string, commit *model.CommitInfo) (model.PromptArtifact, model.ErrorDetailArtifact, error) {
	promptPath := filepath.Join(c.artifactDir, PromptFileName)
	errorPath := filepath.Join(c.artifactDir, ErrorDetailFileName)

	if commit != nil {
		trimmed := *commit
		trimmed.Message = firstLine(trimmed.Message)
		commit = &trimmed
	}

	data := composeData{
		RepoPath:        repoPath,
		Signature:       result.MatchedPattern,
		Category:        result.Category,
		Summary:         result.Summary,
		Hint:            result.Hint,
		MatchedLine:     result.MatchedLine,
		RawLog:          result.RawLog,
		ErrorDetailPath: errorPath,
		Commit:          commit,
	}

	prompt, err := render("prompt.md.tmpl", data)
	if err != nil {
		return model.PromptArtifact{}, model.ErrorDetailArtifact{}, err
	}
	detail, err := render("errordetail.log.tmpl", data)
	if err != nil {
		return model.PromptArtifact{}, model.ErrorDetailArtifact{}, err
	}

	return model.PromptArtifact{Path: promptPath, Content: prompt},
		model.ErrorDetailArtifact{Path: errorPath, Content: detail},
		nil
}

func render(name string, data composeData) (string, error) {
	var buf bytes.Buffer
	if err := artifactTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
