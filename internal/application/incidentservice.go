package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// IncidentService runs one failed deployment through classification, prompt
// composition, artifact writing and IDE launch.
type IncidentService struct {
	source     driven.DeploymentSource
	scm        driven.SourceControl
	scmRepo    string
	classifier *Classifier
	composer   *Composer
	writer     driven.ArtifactWriter
	launcher   driven.IDELauncher
	incidents  driven.IncidentStore
	states     driven.StateStore
	repoPath   string
	now        func() time.Time
}

// NewIncidentService creates an IncidentService. source, scm, launcher,
// incidents and states may be nil: logs must then arrive inline, commits are
// not looked up, no IDE is started, and incidents and state are not persisted.
func NewIncidentService(
	source driven.DeploymentSource,
	scm driven.SourceControl,
	scmRepo string,
	classifier *Classifier,
	composer *Composer,
	writer driven.ArtifactWriter,
	launcher driven.IDELauncher,
	incidents driven.IncidentStore,
	states driven.StateStore,
	repoPath string,
) *IncidentService {
	return &IncidentService{
		source:     source,
		scm:        scm,
		scmRepo:    scmRepo,
		classifier: classifier,
		composer:   composer,
		writer:     writer,
		launcher:   launcher,
		incidents:  incidents,
		states:     states,
		repoPath:   repoPath,
		now:        time.Now,
	}
}

// Process handles event against state and returns the state to use for the
// next event. Non-failure and already-seen events are skipped without error.
//
// State advances once artifacts are written, whether or not the IDE could be
// launched; errors before that point leave state unchanged so the next poll
// picks the deployment up again.
func (s *IncidentService) Process(ctx context.Context, state model.LastSeenState, event model.DeploymentEvent) (model.LastSeenState, *model.Incident, error) {
	if !event.Status.IsFailure() {
		slog.Debug("deployment not failed, skipping", "deployment_id", event.ID, "status", event.Status)
		return state, nil, nil
	}
	if !ShouldProcess(state, event) {
		slog.Debug("deployment already processed", "deployment_id", event.ID)
		return state, nil, nil
	}

	slog.Info("failed deployment detected",
		"deployment_id", event.ID,
		"status", event.Status,
		"service", event.ServiceName,
	)

	rawLog := event.RawLog
	if !event.HasLog() && s.source != nil {
		fetched, err := s.source.FetchLogs(ctx, event.ID)
		if err != nil {
			return state, nil, fmt.Errorf("fetch logs for deployment %s: %w", event.ID, err)
		}
		rawLog = fetched
	}

	result := s.classifier.Classify(rawLog)
	slog.Info("failure classified",
		"deployment_id", event.ID,
		"signature", result.MatchedPattern,
		"category", result.Category,
		"summary", result.Summary,
	)

	commit := s.lookupCommit(ctx, event)

	prompt, detail, err := s.composer.ComposeWithCommit(result, s.repoPath, commit)
	if err != nil {
		return state, nil, fmt.Errorf("compose artifacts for deployment %s: %w", event.ID, err)
	}
	artifacts := model.ArtifactSet{Prompt: prompt, ErrorDetail: detail}

	if err := s.writer.Write(artifacts); err != nil {
		return state, nil, fmt.Errorf("write artifacts for deployment %s: %w", event.ID, err)
	}

	incident := model.Incident{
		ID:              uuid.NewString(),
		DeploymentID:    event.ID,
		Status:          event.Status,
		ServiceName:     event.ServiceName,
		Category:        result.Category,
		MatchedPattern:  result.MatchedPattern,
		Summary:         result.Summary,
		MatchedLine:     result.MatchedLine,
		RawLog:          result.RawLog,
		PromptPath:      prompt.Path,
		ErrorDetailPath: detail.Path,
		Prompt:          prompt.Content,
		CreatedAt:       s.now().UTC(),
	}

	if s.launcher != nil {
		handle, err := s.launcher.Launch(ctx, s.repoPath, artifacts)
		if err != nil {
			slog.Error("ide launch failed", "deployment_id", event.ID, "error", err)
			incident.LaunchError = err.Error()
		} else {
			incident.Launched = true
			slog.Info("ide launched", "deployment_id", event.ID, "pid", handle.PID, "executable", handle.Executable)
		}
	}

	if s.incidents != nil {
		if err := s.incidents.Create(ctx, incident); err != nil {
			slog.Error("failed to record incident", "deployment_id", event.ID, "error", err)
		}
	}

	next := MarkProcessed(state, event)
	if s.states != nil {
		if err := s.states.Save(ctx, next); err != nil {
			slog.Error("failed to persist last seen deployment", "deployment_id", event.ID, "error", err)
		}
	}

	return next, &incident, nil
}

// lookupCommit fetches the deployment's source commit. Failures are logged
// and yield nil; the prompt is still useful without it. Events that carry no
// commit hash are not looked up.
func (s *IncidentService) lookupCommit(ctx context.Context, event model.DeploymentEvent) *model.CommitInfo {
	if s.scm == nil || s.scmRepo == "" || event.CommitSHA == "" {
		return nil
	}

	commit, err := s.scm.FetchCommit(ctx, s.scmRepo, event.CommitSHA)
	if err != nil {
		slog.Warn("commit lookup failed", "repo", s.scmRepo, "sha", event.CommitSHA, "error", err)
		return nil
	}
	return commit
}
