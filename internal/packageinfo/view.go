// Package packageinfo renders the detail panel for a single Homebrew
// package: versions, description, size, dependencies and conflicts.
package packageinfo

import (
	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/i18n"
	"github.com/blackwell-systems/brewdesk/internal/ui"
)

// Mode selects which version the panel leads with.
type Mode string

const (
	// ModeInstalled shows the installed version and flags available updates.
	ModeInstalled Mode = "installed"
	// ModeAvailable shows the latest version brew would install.
	ModeAvailable Mode = "available"
)

// DependencyKeyPrefix prefixes the key of each dependency button.
const DependencyKeyPrefix = "dep/"

// Props is everything the panel renders from.
type Props struct {
	Entry              *brew.PackageEntry
	LoadingDetailsFor  string
	Mode               Mode
	OnSelectDependency func(name string)
}

// View returns the panel for p.Entry, or nil when there is no entry.
func View(p Props, tr i18n.Translator) *ui.Node {
	e := p.Entry
	if e == nil {
		return nil
	}

	var badge *ui.Node
	if e.IsCask {
		badge = ui.Text("cask-badge", tr.T("packageInfo.cask"))
	}
	title := ui.Row("package-info-title", ui.Text("package-info-name", e.Name), badge)

	if p.LoadingDetailsFor != "" && p.LoadingDetailsFor == e.Name {
		return ui.Block("package-info",
			title,
			ui.Text("package-info-loading", tr.T("dialogs.loadingDetails")),
		)
	}

	return ui.Block("package-info",
		title,
		versionRow(p.Mode, e, tr),
		field(tr.T("packageInfo.description"), e.Desc),
		field(tr.T("packageInfo.homepage"), e.Homepage),
		field(tr.T("packageInfo.size"), e.Size),
		dependencies(e.Dependencies, p.OnSelectDependency, tr),
		conflicts(e.Conflicts, tr),
	)
}

func versionRow(mode Mode, e *brew.PackageEntry, tr i18n.Translator) *ui.Node {
	if mode == ModeAvailable {
		if e.LatestVersion == "" {
			return nil
		}
		return field(tr.T("packageInfo.latestVersion"), e.LatestVersion)
	}

	row := field(tr.T("packageInfo.installedVersion"), e.InstalledVersion)
	if row == nil {
		return nil
	}
	if e.HasUpdate() {
		row.Children = append(row.Children,
			ui.Text("update-available", tr.T("packageInfo.updateAvailable")+": "+e.LatestVersion))
	}
	return row
}

// field renders "label: value", or nothing for an empty value.
func field(label, value string) *ui.Node {
	if value == "" {
		return nil
	}
	return ui.Row("package-info-field",
		ui.Text("package-info-label", label+":"),
		ui.Text("package-info-value", value),
	)
}

func dependencies(names []string, onSelect func(string), tr i18n.Translator) *ui.Node {
	header := ui.Text("package-info-label", tr.T("packageInfo.dependencies")+":")
	if len(names) == 0 {
		return ui.Row("package-dependencies", header,
			ui.Text("package-dependencies-empty", tr.T("dialogs.noDependencies")))
	}

	buttons := make([]*ui.Node, 0, len(names)+1)
	buttons = append(buttons, header)
	for _, name := range names {
		name := name
		buttons = append(buttons, ui.Button(DependencyKeyPrefix+name, "package-dependency", name, func(*ui.Event) {
			if onSelect != nil {
				onSelect(name)
			}
		}))
	}
	return ui.Row("package-dependencies", buttons...)
}

func conflicts(names []string, tr i18n.Translator) *ui.Node {
	if len(names) == 0 {
		return nil
	}
	items := make([]*ui.Node, 0, len(names)+1)
	items = append(items, ui.Text("package-info-label", tr.T("packageInfo.conflicts")+":"))
	for _, name := range names {
		items = append(items, ui.Text("package-conflict", name))
	}
	return ui.Row("package-conflicts", items...)
}
