package model

import "regexp"

// UnclassifiedSummary is the summary used when no signature matches.
const UnclassifiedSummary = "unclassified failure"

// Signature is a known failure pattern. Summary may reference capture groups
// of Pattern using regexp.Expand syntax ($1, ${name}).
type Signature struct {
	Name     string
	Category FailureCategory
	Pattern  *regexp.Regexp
	Summary  string
	Hint     string
}

// DiagnosticResult is the classifier's verdict for a single raw log.
type DiagnosticResult struct {
	MatchedPattern string // Signature name; empty when nothing matched.
	Category       FailureCategory
	Summary        string
	Hint           string
	MatchedLine    string
	RawLog         string
}

// Matched reports whether a known signature was found in the log.
func (r DiagnosticResult) Matched() bool {
	return r.MatchedPattern != ""
}
