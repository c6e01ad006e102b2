package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// --- Mock implementations ---

type mockSource struct {
	mu        sync.Mutex
	latest    *model.DeploymentEvent
	latestErr error
	logs      string
	logsErr   error
	polls     int
	logCalls  []string
}

func (m *mockSource) LatestDeployment(_ context.Context) (*model.DeploymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if m.latest == nil {
		return nil, nil
	}
	ev := *m.latest
	return &ev, nil
}

func (m *mockSource) FetchLogs(_ context.Context, deploymentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCalls = append(m.logCalls, deploymentID)
	return m.logs, m.logsErr
}

func (m *mockSource) setLatest(ev *model.DeploymentEvent, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = ev
	m.latestErr = err
}

func (m *mockSource) pollCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

type mockSCM struct {
	commit *model.CommitInfo
	err    error
	refs   []string
}

func (m *mockSCM) FetchCommit(_ context.Context, _ string, ref string) (*model.CommitInfo, error) {
	m.refs = append(m.refs, ref)
	return m.commit, m.err
}

type mockWriter struct {
	mu      sync.Mutex
	written []model.ArtifactSet
	err     error
}

func (m *mockWriter) Write(artifacts model.ArtifactSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, artifacts)
	return nil
}

func (m *mockWriter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.written)
}

type mockLauncher struct {
	mu       sync.Mutex
	launches []string
	err      error
}

func (m *mockLauncher) Launch(_ context.Context, repoPath string, artifacts model.ArtifactSet) (model.ProcessHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launches = append(m.launches, repoPath)
	if m.err != nil {
		return model.ProcessHandle{}, m.err
	}
	return model.ProcessHandle{
		PID:        4242,
		Executable: "fake-ide",
		Args:       []string{repoPath, artifacts.Prompt.Path, artifacts.ErrorDetail.Path},
	}, nil
}

func (m *mockLauncher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.launches)
}

type mockIncidentStore struct {
	mu        sync.Mutex
	incidents []model.Incident
	err       error
}

func (m *mockIncidentStore) Create(_ context.Context, incident model.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.incidents = append(m.incidents, incident)
	return nil
}

func (m *mockIncidentStore) GetByID(_ context.Context, id string) (*model.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inc := range m.incidents {
		if inc.ID == id {
			found := inc
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockIncidentStore) ListRecent(_ context.Context, _ int) ([]model.Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Incident, len(m.incidents))
	copy(out, m.incidents)
	return out, nil
}

type mockStateStore struct {
	mu      sync.Mutex
	state   model.LastSeenState
	loadErr error
	saves   []model.LastSeenState
}

func (m *mockStateStore) Load(_ context.Context) (model.LastSeenState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.loadErr
}

func (m *mockStateStore) Save(_ context.Context, state model.LastSeenState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.saves = append(m.saves, state)
	return nil
}

func (m *mockStateStore) saved() []model.LastSeenState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LastSeenState, len(m.saves))
	copy(out, m.saves)
	return out
}

var errBoom = errors.New("boom")
