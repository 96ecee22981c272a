// Package output formats brewdesk's non-interactive command output: tables
// of deprecated formulae and history, and a progress spinner for slow brew
// calls.
package output

import (
	"os"
	"strings"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
)

var (
	okColor      = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

// IsColorEnabled reports whether stdout is a terminal and NO_COLOR is unset.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = true
	return t
}

// RenderDeprecatedTable lists deprecated formulae with their versions and
// installed size.
func RenderDeprecatedTable(entries []*brew.PackageEntry) string {
	if len(entries) == 0 {
		return "No deprecated formulae installed.\n"
	}

	t := newTable()
	t.AppendHeader(table.Row{"Formula", "Installed", "Latest", "Size"})
	for _, e := range entries {
		latest := e.LatestVersion
		if e.HasUpdate() {
			latest = warningColor.Sprint(latest)
		}
		t.AppendRow(table.Row{e.Name, orDash(e.InstalledVersion), orDash(latest), orDash(e.Size)})
	}
	return t.Render() + "\n"
}

// RenderDoctorRuns lists stored doctor runs, newest first.
func RenderDoctorRuns(runs []*store.DoctorRun, now time.Time) string {
	if len(runs) == 0 {
		return "No doctor runs recorded.\n"
	}

	t := newTable()
	t.AppendHeader(table.Row{"When", "Took", "Deprecated", "Result"})
	for _, r := range runs {
		result := okColor.Sprint("ok")
		if r.Error != "" {
			result = failColor.Sprint(truncate(r.Error, 40))
		}
		t.AppendRow(table.Row{
			formatRelativeTime(r.FinishedAt, now),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String(),
			orDash(strings.Join(r.Deprecated, ", ")),
			result,
		})
	}
	return t.Render() + "\n"
}

// RenderRemovals lists stored uninstalls, newest first.
func RenderRemovals(removals []*store.Removal, now time.Time) string {
	if len(removals) == 0 {
		return "No uninstalls recorded.\n"
	}

	t := newTable()
	t.AppendHeader(table.Row{"When", "Package", "Result"})
	for _, r := range removals {
		result := okColor.Sprint("removed")
		if !r.Succeeded() {
			result = failColor.Sprint(truncate(r.Error, 40))
		}
		t.AppendRow(table.Row{formatRelativeTime(r.RemovedAt, now), r.Package, result})
	}
	return t.Render() + "\n"
}

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
