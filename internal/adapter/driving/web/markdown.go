package web

import (
	"bytes"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// RenderLog converts raw deployment log text into HTML with one <span> per
// line. The line the classifier matched gets class log-match, other lines
// mentioning an error get log-error, and the rest log-line.
func RenderLog(raw, matchedLine string) string {
	if raw == "" {
		return ""
	}

	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	var buf strings.Builder
	buf.Grow(len(raw) * 2)

	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}

		buf.WriteString(`<span class="`)
		buf.WriteString(classForLogLine(line, matchedLine))
		buf.WriteString(`">`)
		buf.WriteString(templ.EscapeString(line))
		buf.WriteString(`</span>`)
	}

	return buf.String()
}

func classForLogLine(line, matchedLine string) string {
	if matchedLine != "" && strings.TrimSpace(line) == strings.TrimSpace(matchedLine) {
		return "log-match"
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "error") || strings.Contains(lower, "fatal") || strings.Contains(lower, "panic") {
		return "log-error"
	}
	return "log-line"
}
