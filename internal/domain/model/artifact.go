package model

// PromptArtifact is the instruction text handed to the IDE assistant.
type PromptArtifact struct {
	Path    string
	Content string
}

// ErrorDetailArtifact holds the raw log and matched signature for an incident.
type ErrorDetailArtifact struct {
	Path    string
	Content string
}

// ArtifactSet groups the two files produced for an incident.
type ArtifactSet struct {
	Prompt      PromptArtifact
	ErrorDetail ErrorDetailArtifact
}

// ProcessHandle identifies a launched IDE process. The process is detached;
// the handle is informational only.
type ProcessHandle struct {
	PID        int
	Executable string
	Args       []string
}
