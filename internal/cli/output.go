package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/aalvaropc/apix/internal/domain"
)

type theme struct {
	Title  lipgloss.Style
	Subtle lipgloss.Style
	OK     lipgloss.Style
	Fail   lipgloss.Style
	Card   lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		Title:  lipgloss.NewStyle().Bold(true),
		Subtle: lipgloss.NewStyle().Faint(true),
		OK:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

func checkFormat(format string) error {
	switch format {
	case "json", "pretty", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printResult(w io.Writer, res domain.CallResult, format string) error {
	if format == "json" {
		return writeJSON(w, res)
	}
	printPrettyResult(w, defaultTheme(), res)
	return nil
}

func printPrettyResult(w io.Writer, th theme, res domain.CallResult) {
	m := res.Metadata
	name := m.Service + "/" + m.Endpoint

	if !res.Success {
		fmt.Fprintf(w, "%s %s  %s\n", th.Fail.Render("✗"), th.Title.Render(name), th.Fail.Render(res.Error.Code))
		fmt.Fprintf(w, "  %s\n", res.Error.Message)
		if len(res.Error.Details) > 0 {
			fmt.Fprintln(w, th.Card.Render(indentJSON(res.Error.Details)))
		}
		return
	}

	meta := fmt.Sprintf("%d  %dms", m.StatusCode, m.DurationMS)
	if m.Cached {
		meta += "  (cached)"
	}
	fmt.Fprintf(w, "%s %s  %s\n", th.OK.Render("✓"), th.Title.Render(name), th.Subtle.Render(meta))
	fmt.Fprintln(w, indentJSON(res.Data))
}

func printBatch(w io.Writer, res domain.BatchResult, format string) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	th := defaultTheme()
	for _, it := range res.Items {
		switch {
		case it.Skipped:
			fmt.Fprintf(w, "%s [%d] skipped\n", th.Subtle.Render("-"), it.Index)
		case it.Result.Success:
			fmt.Fprintf(w, "%s [%d] %s\n", th.OK.Render("✓"), it.Index, compactJSON(it.Result.Data))
		default:
			fmt.Fprintf(w, "%s [%d] %s: %s\n", th.Fail.Render("✗"), it.Index, it.Result.Error.Code, it.Result.Error.Message)
		}
	}
	s := res.Summary
	fmt.Fprintln(w, th.Subtle.Render(fmt.Sprintf("total %d, ok %d, failed %d, skipped %d", s.Total, s.Succeeded, s.Failed, s.Skipped)))
	return nil
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	s := string(b)
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return strings.TrimSpace(s)
}
