package web

import (
	vm "github.com/ericfisherdev/deployfix/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// toIncidentRowViewModel converts a domain Incident to a table row.
func toIncidentRowViewModel(inc model.Incident) vm.IncidentRowViewModel {
	service := inc.ServiceName
	if service == "" {
		service = "-"
	}

	return vm.IncidentRowViewModel{
		ID:           inc.ID,
		DeploymentID: inc.DeploymentID,
		Service:      service,
		Status:       string(inc.Status),
		Category:     string(inc.Category),
		Summary:      inc.Summary,
		Launched:     inc.Launched,
		LaunchError:  inc.LaunchError,
		CreatedAt:    inc.CreatedAt.UTC().Format(timeLayout),
		DetailPath:   "/incidents/" + inc.ID,
	}
}

func toIncidentRowViewModels(incidents []model.Incident) []vm.IncidentRowViewModel {
	rows := make([]vm.IncidentRowViewModel, 0, len(incidents))
	for _, inc := range incidents {
		rows = append(rows, toIncidentRowViewModel(inc))
	}
	return rows
}

// toIncidentDetailViewModel renders the prompt markdown and the raw log to
// sanitized HTML.
func toIncidentDetailViewModel(inc model.Incident) vm.IncidentDetailViewModel {
	pattern := inc.MatchedPattern
	if pattern == "" {
		pattern = "none"
	}

	return vm.IncidentDetailViewModel{
		IncidentRowViewModel: toIncidentRowViewModel(inc),
		MatchedPattern:       pattern,
		MatchedLine:          inc.MatchedLine,
		PromptPath:           inc.PromptPath,
		ErrorDetailPath:      inc.ErrorDetailPath,
		PromptHTML:           RenderMarkdown(inc.Prompt),
		LogHTML:              RenderLog(inc.RawLog, inc.MatchedLine),
	}
}
