package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/aalvaropc/apix/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// clampLines keeps the first maxLines lines of s.
func clampLines(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n") + fmt.Sprintf("\n… (%d more lines)", len(lines)-maxLines)
}

func prettyData(v any) string {
	if v == nil {
		return "(empty)"
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func renderResult(th Theme, target string, res domain.CallResult) string {
	var b strings.Builder
	m := res.Metadata

	if !res.Success {
		b.WriteString(th.Fail.Render("✗ " + target))
		b.WriteString("\n\n")
		b.WriteString(res.Error.Code)
		b.WriteString(": ")
		b.WriteString(res.Error.Message)
		b.WriteString("\n")
		if hint := hintFor(res.Error, ""); hint != "" {
			b.WriteString(th.Help.Render(hint))
			b.WriteString("\n")
		}
		if len(res.Error.Details) > 0 {
			b.WriteString("\n")
			b.WriteString(prettyData(res.Error.Details))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(th.OK.Render("✓ " + target))
	meta := fmt.Sprintf("  %d  %dms", m.StatusCode, m.DurationMS)
	if m.Cached {
		meta += "  (cached)"
	}
	b.WriteString(th.Subtitle.Render(meta))
	b.WriteString("\n\n")
	b.WriteString(prettyData(res.Data))
	b.WriteString("\n")
	return b.String()
}
