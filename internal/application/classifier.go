package application

import (
	"strings"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// genericHint is shown when no signature matched.
const genericHint = "Read the log below, find the first error, and fix its root cause."

// Classifier matches raw log text against an ordered signature list.
// The first signature (in list order) found anywhere in the log wins; order
// is a tie-break, not a severity ranking.
type Classifier struct {
	signatures []model.Signature
}

// NewClassifier creates a Classifier over the given signatures. The slice is
// copied so later changes by the caller do not affect classification.
func NewClassifier(signatures []model.Signature) *Classifier {
	sigs := make([]model.Signature, len(signatures))
	copy(sigs, signatures)
	return &Classifier{signatures: sigs}
}

// Len returns the number of signatures the classifier evaluates.
func (c *Classifier) Len() int {
	return len(c.signatures)
}

// Classify returns the diagnostic for rawLog. An empty or unmatched log yields
// the unclassified fallback with the raw log preserved.
func (c *Classifier) Classify(rawLog string) model.DiagnosticResult {
	for _, sig := range c.signatures {
		loc := sig.Pattern.FindStringSubmatchIndex(rawLog)
		if loc == nil {
			continue
		}

		summary := string(sig.Pattern.ExpandString(nil, sig.Summary, rawLog, loc))
		hint := string(sig.Pattern.ExpandString(nil, sig.Hint, rawLog, loc))

		return model.DiagnosticResult{
			MatchedPattern: sig.Name,
			Category:       sig.Category,
			Summary:        strings.TrimSpace(summary),
			Hint:           strings.TrimSpace(hint),
			MatchedLine:    lineAt(rawLog, loc[0]),
			RawLog:         rawLog,
		}
	}

	return model.DiagnosticResult{
		Category: model.CategoryUnclassified,
		Summary:  model.UnclassifiedSummary,
		Hint:     genericHint,
		RawLog:   rawLog,
	}
}

// lineAt returns the full line of s containing byte offset pos.
func lineAt(s string, pos int) string {
	start := strings.LastIndexByte(s[:pos], '\n') + 1
	end := strings.IndexByte(s[pos:], '\n')
	if end < 0 {
		return strings.TrimRight(s[start:], "\r")
	}
	return strings.TrimRight(s[start:pos+end], "\r")
}
