// Package httphandler is the JSON driving adapter: webhook intake, health,
// notification history and the incident API.
package httphandler

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// maxWebhookBody caps the size of a webhook delivery.
const maxWebhookBody = 1 << 20

// defaultIncidentLimit is how many incidents the list endpoint returns when
// no limit is given.
const defaultIncidentLimit = 50

// EventSubmitter accepts deployment events for asynchronous processing.
// application.Monitor satisfies it.
type EventSubmitter interface {
	Submit(event model.DeploymentEvent) error
}

// Handler is the HTTP driving adapter that serves the webhook and JSON API.
type Handler struct {
	incidents     driven.IncidentStore
	notifications *application.NotificationLog
	submitter     EventSubmitter
	webhookToken  string
	now           func() time.Time
	logger        *slog.Logger
}

// NewHandler creates a Handler. submitter may be nil when the process runs in
// poll mode; the webhook route is then not registered.
func NewHandler(
	incidents driven.IncidentStore,
	notifications *application.NotificationLog,
	submitter EventSubmitter,
	webhookToken string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		incidents:     incidents,
		notifications: notifications,
		submitter:     submitter,
		webhookToken:  webhookToken,
		now:           time.Now,
		logger:        logger,
	}
}

// RegisterAPIRoutes registers the JSON routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /notifications", h.requireToken(h.ListNotifications))
	mux.HandleFunc("POST /clear-notifications", h.requireToken(h.ClearNotifications))
	mux.HandleFunc("GET /api/v1/incidents", h.ListIncidents)

	if h.submitter != nil {
		mux.HandleFunc("POST /webhook", h.requireToken(h.Webhook))
	}
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Webhook accepts a deployment notification. Failed deployments are handed
// to the monitor; the response is sent before any processing happens.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, notification, err := parseWebhook(body, h.now())
	if err != nil {
		h.logger.Warn("rejected webhook", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	h.notifications.Add(notification)
	h.logger.Info("webhook received",
		"event", notification.Event,
		"deployment_id", event.ID,
		"status", event.Status,
		"service", event.ServiceName,
	)

	if !event.Status.IsFailure() {
		writeJSON(w, http.StatusOK, WebhookResponse{
			Status:  "received",
			Message: "notification received for event " + notification.Event,
		})
		return
	}

	if err := h.submitter.Submit(event); err != nil {
		if errors.Is(err, application.ErrBusy) {
			h.logger.Warn("monitor busy, asking for redelivery", "deployment_id", event.ID)
			writeError(w, http.StatusServiceUnavailable, "busy processing another incident")
			return
		}
		h.logger.Error("failed to submit deployment", "deployment_id", event.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, WebhookResponse{
		Status:  "received",
		Message: "notification received for failed deployment " + event.ID,
	})
}

// ListNotifications returns the retained webhook deliveries, oldest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, _ *http.Request) {
	items := h.notifications.List()

	resp := NotificationsResponse{
		Notifications: make([]NotificationResponse, 0, len(items)),
		Count:         len(items),
	}
	for _, n := range items {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ClearNotifications drops the webhook history.
func (h *Handler) ClearNotifications(w http.ResponseWriter, _ *http.Request) {
	n := h.notifications.Clear()
	writeJSON(w, http.StatusOK, ClearResponse{
		Status:  "success",
		Message: "cleared " + strconv.Itoa(n) + " notifications",
		Cleared: n,
	})
}

// ListIncidents returns the most recent incidents. An optional ?limit=N
// query parameter bounds the result.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	limit := defaultIncidentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	incidents, err := h.incidents.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list incidents", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]IncidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		resp = append(resp, toIncidentResponse(inc))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

// requireToken enforces "Authorization: Bearer <token>" when a webhook token
// is configured.
func (h *Handler) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.webhookToken != "" {
			got := r.Header.Get("Authorization")
			want := "Bearer " + h.webhookToken
			if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				h.logger.Warn("unauthorized request", "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next(w, r)
	}
}
