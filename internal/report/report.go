// Package report renders coordinator reports for the terminal and as JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/cockroachdb/errors"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/smykla-skalski/liftoff/internal/color"
	"github.com/smykla-skalski/liftoff/internal/coordinator"
)

// StatusIcon returns a single-width icon for a status.
func StatusIcon(s coordinator.Status) string {
	switch s {
	case coordinator.StatusReady:
		return "✓"
	case coordinator.StatusFailed:
		return "✗"
	case coordinator.StatusDownloadingApp, coordinator.StatusDownloadingUpdate:
		return "↓"
	default:
		return "?"
	}
}

// StatusStyle returns the theme style for a status.
func StatusStyle(s coordinator.Status, theme color.Theme) lipgloss.Style {
	switch s {
	case coordinator.StatusReady:
		return theme.Ready
	case coordinator.StatusFailed:
		return theme.Failed
	default:
		return theme.Downloading
	}
}

// StatusLine returns "<icon> <status>: <action text>" colored by the theme.
func StatusLine(s coordinator.Status, theme color.Theme) string {
	style := StatusStyle(s, theme)

	return style.Render(StatusIcon(s)+" "+s.String()) + ": " + s.Text()
}

// RenderTable renders a report as a two-column table followed by its
// problems, one per row.
func RenderTable(r *coordinator.Report, theme color.Theme) string {
	rows := [][2]string{
		{"Status", StatusLine(r.Status, theme)},
		{"Layout", r.Layout.String()},
		{"Verdict", r.Verdict.String()},
		{"Remote version", orDash(r.RemoteVersion, theme)},
		{"Installed version", orDash(r.InstalledVersion, theme)},
		{"Language", r.Language},
		{"Cache dir", shortenPath(r.CacheDir)},
		{"Payload", orDash(shortenPath(r.PayloadDir), theme)},
		{"Executable", orDash(shortenPath(r.Executable), theme)},
	}

	if r.ArchivePath != "" {
		rows = append(rows, [2]string{"Archive", shortenPath(r.ArchivePath)})
	}

	rows = append(rows, [2]string{"Checked in", FormatElapsed(r.Duration)})

	for _, p := range r.Problems {
		rows = append(rows, [2]string{theme.Warning.Render("! Problem"), p.Error()})
	}

	keyW := 0
	for _, row := range rows {
		keyW = max(keyW, visibleWidth(row[0]))
	}

	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Row().Formatting().WithAutoWrap(tw.WrapNormal).Build().
			Build().Build()),
	)

	for _, row := range rows {
		_ = t.Append([]string{padToWidth(theme.Label.Render(row[0]), keyW), row[1]})
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

// WriteJSON writes a report as indented JSON.
func WriteJSON(w io.Writer, r *coordinator.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return errors.Wrap(err, "writing report")
	}

	return nil
}

// FormatElapsed renders a duration in human form, e.g. "1 minute 3 seconds".
func FormatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return "0ms"
	}

	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

func orDash(s string, theme color.Theme) string {
	if s == "" {
		return theme.Muted.Render("-")
	}

	return s
}

func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := visibleWidth(s)
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}

// homeDir caches the user's home directory for path shortening.
var homeDir, _ = os.UserHomeDir()

// shortenPath replaces the user's home directory prefix with ~.
func shortenPath(s string) string {
	if homeDir == "" || s == "" {
		return s
	}

	if s == homeDir || strings.HasPrefix(s, homeDir+string(os.PathSeparator)) {
		return "~" + strings.TrimPrefix(s, homeDir)
	}

	return s
}
