package driven

import "github.com/ericfisherdev/deployfix/internal/domain/model"

// ArtifactWriter persists an incident's prompt and error-detail files,
// replacing any files left by the previous incident.
type ArtifactWriter interface {
	Write(artifacts model.ArtifactSet) error
}
