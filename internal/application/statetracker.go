package application

import "github.com/ericfisherdev/deployfix/internal/domain/model"

// ShouldProcess reports whether event has not been handled yet according to
// state. Events without an id are never processed.
func ShouldProcess(state model.LastSeenState, event model.DeploymentEvent) bool {
	return event.ID != "" && event.ID != state.LastDeploymentID
}

// MarkProcessed returns the state after event has been handled.
func MarkProcessed(state model.LastSeenState, event model.DeploymentEvent) model.LastSeenState {
	state.LastDeploymentID = event.ID
	return state
}
