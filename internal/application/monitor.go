// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// Mode selects how the Monitor learns about deployments. Exactly one mode is
// active per process so that a single goroutine owns the last-seen state.
type Mode string

const (
	ModePoll    Mode = "poll"
	ModeWebhook Mode = "webhook"
)

// ParseMode validates a mode string.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModePoll, ModeWebhook:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %q or %q)", raw, ModePoll, ModeWebhook)
	}
}

// ErrBusy is returned by Submit when an event is already waiting to be processed.
var ErrBusy = errors.New("monitor busy")

// Monitor owns the last-seen state and feeds deployments, one at a time, to
// the IncidentService. In poll mode it asks the DeploymentSource on a fixed
// interval; in webhook mode it waits for events handed over by Submit.
type Monitor struct {
	incidents *IncidentService
	source    driven.DeploymentSource
	states    driven.StateStore
	mode      Mode
	interval  time.Duration
	events    chan model.DeploymentEvent
}

// NewMonitor creates a Monitor. source is only used in poll mode; states may be
// nil to start every run with an empty last-seen state.
func NewMonitor(
	incidents *IncidentService,
	source driven.DeploymentSource,
	states driven.StateStore,
	mode Mode,
	interval time.Duration,
) *Monitor {
	return &Monitor{
		incidents: incidents,
		source:    source,
		states:    states,
		mode:      mode,
		interval:  interval,
		events:    make(chan model.DeploymentEvent, 1),
	}
}

// Mode returns the monitor's configured mode.
func (m *Monitor) Mode() Mode {
	return m.mode
}

// Start runs the monitor loop until ctx is canceled. In poll mode it polls
// immediately and then on every interval tick.
func (m *Monitor) Start(ctx context.Context) {
	state := m.loadState(ctx)

	var tick <-chan time.Time
	if m.mode == ModePoll {
		state = m.poll(ctx, state)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	slog.Info("monitor started", "mode", m.mode, "interval", m.interval, "last_deployment_id", state.LastDeploymentID)

	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopped")
			return
		case <-tick:
			state = m.poll(ctx, state)
		case event := <-m.events:
			state = m.handle(ctx, state, event)
		}
	}
}

// Submit hands a webhook event to the monitor without waiting for it to be
// processed. It returns ErrBusy when another event is still queued.
func (m *Monitor) Submit(event model.DeploymentEvent) error {
	select {
	case m.events <- event:
		return nil
	default:
		return ErrBusy
	}
}

// poll fetches the latest deployment and processes it. Every error is logged
// and left for the next tick.
func (m *Monitor) poll(ctx context.Context, state model.LastSeenState) model.LastSeenState {
	start := time.Now()

	event, err := m.source.LatestDeployment(ctx)
	if err != nil {
		slog.Error("poll failed", "error", err)
		return state
	}
	if event == nil {
		slog.Info("poll complete, no deployments", "duration", time.Since(start).Round(time.Millisecond))
		return state
	}

	slog.Info("poll complete",
		"deployment_id", event.ID,
		"status", event.Status,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return m.handle(ctx, state, *event)
}

func (m *Monitor) handle(ctx context.Context, state model.LastSeenState, event model.DeploymentEvent) model.LastSeenState {
	next, incident, err := m.incidents.Process(ctx, state, event)
	if err != nil {
		slog.Error("incident abandoned", "deployment_id", event.ID, "error", err)
		return state
	}
	if incident != nil {
		slog.Info("incident processed",
			"incident_id", incident.ID,
			"deployment_id", incident.DeploymentID,
			"launched", incident.Launched,
		)
	}
	return next
}

func (m *Monitor) loadState(ctx context.Context) model.LastSeenState {
	if m.states == nil {
		return model.LastSeenState{}
	}
	state, err := m.states.Load(ctx)
	if err != nil {
		slog.Error("failed to load last seen deployment, starting empty", "error", err)
		return model.LastSeenState{}
	}
	return state
}
