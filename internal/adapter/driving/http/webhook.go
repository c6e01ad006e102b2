package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// ErrInvalidPayload is returned when a webhook body cannot be turned into a
// deployment event.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// webhookPayload covers both Railway's native deployment webhook and the
// older {event, deployment, service} shape.
type webhookPayload struct {
	Type      string `json:"type"`
	Event     string `json:"event"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Log       string `json:"log"`

	Deployment struct {
		ID        string         `json:"id"`
		Status    string         `json:"status"`
		CreatedAt string         `json:"createdAt"`
		Meta      map[string]any `json:"meta"`
	} `json:"deployment"`

	Project struct {
		ID string `json:"id"`
	} `json:"project"`

	Service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"service"`
}

// parseWebhook decodes body into a DeploymentEvent and the Notification kept
// for history. receivedAt is used when the payload carries no usable timestamp.
func parseWebhook(body []byte, receivedAt time.Time) (model.DeploymentEvent, model.Notification, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.DeploymentEvent{}, model.Notification{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if raw == nil {
		return model.DeploymentEvent{}, model.Notification{}, fmt.Errorf("%w: body is not a JSON object", ErrInvalidPayload)
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.DeploymentEvent{}, model.Notification{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	id := strings.TrimSpace(p.Deployment.ID)
	if id == "" {
		return model.DeploymentEvent{}, model.Notification{}, fmt.Errorf("%w: missing deployment id", ErrInvalidPayload)
	}

	event := model.DeploymentEvent{
		ID:          id,
		ProjectID:   p.Project.ID,
		ServiceID:   p.Service.ID,
		ServiceName: p.Service.Name,
		Status:      webhookStatus(p),
		Timestamp:   webhookTime(receivedAt, p.Timestamp, p.Deployment.CreatedAt),
		RawLog:      p.Log,
	}
	if sha, ok := p.Deployment.Meta["commitHash"].(string); ok {
		event.CommitSHA = sha
	}

	n := model.Notification{
		ReceivedAt:   receivedAt.UTC(),
		Event:        p.eventName(),
		DeploymentID: id,
		Payload:      raw,
	}
	return event, n, nil
}

// eventName returns the name recorded in notification history.
func (p webhookPayload) eventName() string {
	if p.Event != "" {
		return p.Event
	}
	return p.Type
}

// webhookStatus prefers an explicit deployment status, then the top-level
// status, then the event name (deployment.failed, deployment.crashed).
func webhookStatus(p webhookPayload) model.DeploymentStatus {
	for _, raw := range []string{p.Deployment.Status, p.Status} {
		if raw != "" {
			return model.ParseDeploymentStatus(raw)
		}
	}

	name := p.eventName()
	if _, suffix, ok := strings.Cut(name, "."); ok {
		return model.ParseDeploymentStatus(suffix)
	}
	return model.DeploymentStatusUnknown
}

func webhookTime(fallback time.Time, candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, c); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}
