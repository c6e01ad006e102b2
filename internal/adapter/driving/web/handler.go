// Package web implements the read-only HTML dashboard using templ components.
package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/deployfix/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/deployfix/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/deployfix/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// dashboardLimit is how many incidents the landing page lists.
const dashboardLimit = 50

// Handler is the web GUI driving adapter that serves HTML pages.
type Handler struct {
	incidents     driven.IncidentStore
	notifications *application.NotificationLog
	mode          string
	logger        *slog.Logger
}

// NewHandler creates a Handler. notifications may be nil in poll mode.
func NewHandler(
	incidents driven.IncidentStore,
	notifications *application.NotificationLog,
	mode string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		incidents:     incidents,
		notifications: notifications,
		mode:          mode,
		logger:        logger,
	}
}

// Dashboard renders the incident list.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.incidents.ListRecent(r.Context(), dashboardLimit)
	if err != nil {
		h.logger.Error("failed to list incidents", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := vm.DashboardViewModel{
		Mode:      h.mode,
		Incidents: toIncidentRowViewModels(incidents),
	}
	if h.notifications != nil {
		data.Notifications = len(h.notifications.List())
	}

	h.render(w, r, templates.Layout("Failed deployments", pages.Dashboard(data)))
}

// IncidentDetail renders one incident's prompt and log.
func (h *Handler) IncidentDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	inc, err := h.incidents.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get incident", "incident_id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if inc == nil {
		http.NotFound(w, r)
		return
	}

	h.render(w, r, templates.Layout("Incident "+inc.DeploymentID, pages.Incident(toIncidentDetailViewModel(*inc))))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
