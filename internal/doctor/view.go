// Package doctor renders the Homebrew doctor screen: the doctor log, the
// deprecated formulae found on the system and the detail panel for the
// selected one.
//
// The view owns no state. Everything it shows comes from Props, and every
// interaction is handed back to the caller through Props' callbacks.
package doctor

import (
	"strconv"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/i18n"
	"github.com/blackwell-systems/brewdesk/internal/packageinfo"
	"github.com/blackwell-systems/brewdesk/internal/ui"
)

// Node keys for the controls the view renders.
const (
	KeyClearLog  = "doctor/clear"
	KeyRunDoctor = "doctor/run"
)

// RowKey is the key of the list row for a deprecated formula.
func RowKey(name string) string { return "deprecated/" + name }

// UninstallKey is the key of a row's uninstall button.
func UninstallKey(name string) string { return "deprecated/" + name + "/uninstall" }

// Props is the state and callbacks the view renders from.
type Props struct {
	DoctorLog                 string
	DeprecatedFormulae        []string
	SelectedDeprecatedPackage *brew.PackageEntry
	LoadingDetailsFor         string

	OnClearLog            func()
	OnRunDoctor           func()
	OnSelectDeprecated    func(name string)
	OnSelectDependency    func(name string)
	OnUninstallDeprecated func(name string)
}

// View renders p.
func View(p Props, tr i18n.Translator) *ui.Node {
	return ui.Block("doctor-view",
		header(p, tr),
		deprecatedSection(p, tr),
		doctorLog(p.DoctorLog, tr),
		ui.Text("package-footer", tr.T("footers.doctor")),
	)
}

func header(p Props, tr i18n.Translator) *ui.Node {
	return ui.Row("header-row",
		ui.Text("header-title", tr.T("headers.homebrewDoctor")),
		ui.Row("header-actions",
			ui.Button(KeyClearLog, "doctor-button", tr.T("buttons.clearLog"), func(*ui.Event) {
				call(p.OnClearLog)
			}),
			ui.Button(KeyRunDoctor, "doctor-button", tr.T("buttons.runDoctor"), func(*ui.Event) {
				call(p.OnRunDoctor)
			}),
		),
	)
}

func deprecatedSection(p Props, tr i18n.Translator) *ui.Node {
	if len(p.DeprecatedFormulae) == 0 {
		return nil
	}

	selected := ""
	if p.SelectedDeprecatedPackage != nil {
		selected = p.SelectedDeprecatedPackage.Name
	}

	rows := make([]*ui.Node, len(p.DeprecatedFormulae))
	for i, name := range p.DeprecatedFormulae {
		rows[i] = deprecatedRow(name, name == selected, p, tr)
	}

	var details *ui.Node
	if p.SelectedDeprecatedPackage != nil {
		details = ui.Block("doctor-package-info", packageinfo.View(packageinfo.Props{
			Entry:              p.SelectedDeprecatedPackage,
			LoadingDetailsFor:  p.LoadingDetailsFor,
			Mode:               packageinfo.ModeInstalled,
			OnSelectDependency: p.OnSelectDependency,
		}, tr))
	}

	return ui.Block("deprecated-formulae-section",
		ui.Row("deprecated-formulae-header",
			ui.Text("deprecated-formulae-title", tr.T("headers.deprecatedFormulae")),
			ui.Text("deprecated-count", strconv.Itoa(len(p.DeprecatedFormulae))),
		),
		ui.Block("deprecated-formulae-list", rows...),
		details,
	)
}

func deprecatedRow(name string, selected bool, p Props, tr i18n.Translator) *ui.Node {
	activate := func() {
		if p.OnSelectDeprecated != nil {
			p.OnSelectDeprecated(name)
		}
	}

	class := "deprecated-formula-item"
	if selected {
		class += " selected"
	}

	uninstall := ui.Button(UninstallKey(name), "deprecated-uninstall-button", tr.T("buttons.uninstall", i18n.P("name", name)), func(e *ui.Event) {
		e.StopPropagation()
		if p.OnUninstallDeprecated != nil {
			p.OnUninstallDeprecated(name)
		}
	})
	uninstall.Title = tr.T("buttons.uninstallDeprecated", i18n.P("name", name))

	row := ui.Row(class, ui.Text("deprecated-formula-name", name), uninstall).WithKey(RowKey(name))
	row.Role = ui.RoleButton
	row.Focusable = true
	row.OnClick = func(*ui.Event) { activate() }
	// Activation keys select from anywhere in the row, including the
	// uninstall button: the prevented default keeps them from clicking it.
	row.OnKeyDown = func(e *ui.Event) {
		if !ui.IsActivationKey(e.Key) {
			return
		}
		e.PreventDefault()
		activate()
	}
	return row
}

func doctorLog(log string, tr i18n.Translator) *ui.Node {
	if log == "" {
		log = tr.T("dialogs.noDoctorOutput")
	}
	return ui.Pre("doctor-log", log)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
