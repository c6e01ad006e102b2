// Package viewmodel defines presentation-ready structs for the dashboard views.
// View models decouple rendering from domain model types.
package viewmodel

// IncidentRowViewModel holds presentation-ready data for one row of the
// incident table.
type IncidentRowViewModel struct {
	ID           string
	DeploymentID string
	Service      string
	Status       string
	Category     string
	Summary      string
	Launched     bool
	LaunchError  string
	CreatedAt    string
	DetailPath   string
}

// IncidentDetailViewModel holds everything the incident page shows.
type IncidentDetailViewModel struct {
	IncidentRowViewModel

	MatchedPattern  string
	MatchedLine     string
	PromptPath      string
	ErrorDetailPath string

	// PromptHTML and LogHTML are sanitized HTML fragments.
	PromptHTML string
	LogHTML    string
}

// DashboardViewModel is the landing page: mode banner and recent incidents.
type DashboardViewModel struct {
	Mode          string
	Notifications int
	Incidents     []IncidentRowViewModel
}
