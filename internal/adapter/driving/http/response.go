package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// WebhookResponse acknowledges an accepted webhook delivery.
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NotificationResponse is one retained webhook delivery.
type NotificationResponse struct {
	ReceivedAt   string         `json:"received_at"`
	Event        string         `json:"event"`
	DeploymentID string         `json:"deployment_id"`
	Data         map[string]any `json:"data"`
}

// NotificationsResponse wraps the notification history.
type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Count         int                    `json:"count"`
}

// ClearResponse reports how many notifications were dropped.
type ClearResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Cleared int    `json:"cleared"`
}

// IncidentResponse is the JSON representation of a recorded incident.
type IncidentResponse struct {
	ID              string `json:"id"`
	DeploymentID    string `json:"deployment_id"`
	Status          string `json:"status"`
	Service         string `json:"service"`
	Category        string `json:"category"`
	MatchedPattern  string `json:"matched_pattern,omitempty"`
	Summary         string `json:"summary"`
	PromptPath      string `json:"prompt_path"`
	ErrorDetailPath string `json:"error_detail_path"`
	Launched        bool   `json:"launched"`
	LaunchError     string `json:"launch_error,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	data := n.Payload
	if data == nil {
		data = map[string]any{}
	}
	return NotificationResponse{
		ReceivedAt:   n.ReceivedAt.UTC().Format(time.RFC3339),
		Event:        n.Event,
		DeploymentID: n.DeploymentID,
		Data:         data,
	}
}

// toIncidentResponse converts a domain Incident to its JSON representation.
// The prompt body is left out; the dashboard renders it.
func toIncidentResponse(inc model.Incident) IncidentResponse {
	return IncidentResponse{
		ID:              inc.ID,
		DeploymentID:    inc.DeploymentID,
		Status:          string(inc.Status),
		Service:         inc.ServiceName,
		Category:        string(inc.Category),
		MatchedPattern:  inc.MatchedPattern,
		Summary:         inc.Summary,
		PromptPath:      inc.PromptPath,
		ErrorDetailPath: inc.ErrorDetailPath,
		Launched:        inc.Launched,
		LaunchError:     inc.LaunchError,
		CreatedAt:       inc.CreatedAt.UTC().Format(time.RFC3339),
	}
}
