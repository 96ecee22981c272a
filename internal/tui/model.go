// Package tui runs the interactive doctor screen.
//
// Model owns every piece of state the doctor view renders and implements the
// view's callbacks: running brew doctor, loading details for the selected
// formula, uninstalling, and clearing the log. Slow work runs in tea.Cmds and
// reports back through messages.
package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/doctor"
	"github.com/blackwell-systems/brewdesk/internal/i18n"
	"github.com/blackwell-systems/brewdesk/internal/logging"
	"github.com/blackwell-systems/brewdesk/internal/ui"
	"github.com/blackwell-systems/brewdesk/internal/watcher"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures a Model. Brew and Translator are required.
type Options struct {
	Context    context.Context
	Brew       Brew
	History    History // nil disables history
	Translator i18n.Translator
	Logger     *logging.Logger
	Changes    <-chan watcher.Change // nil disables refresh on Cellar changes
	// RunOnStart runs brew doctor as soon as the screen opens.
	RunOnStart bool
}

// Model is the Bubble Tea model for the doctor screen.
type Model struct {
	ctx     context.Context
	brew    Brew
	history History
	tr      i18n.Translator
	log     *logging.Logger
	changes <-chan watcher.Change
	sheet   ui.Stylesheet

	runOnStart bool

	// View state
	doctorLog         string
	deprecated        []string
	selected          *brew.PackageEntry
	loadingDetailsFor string

	running      bool
	uninstalling string
	status       string
	statusErr    bool

	focusKey   string
	focusIndex int
	root       *ui.Node
	zones      *ui.ZoneMap
	pending    []tea.Cmd

	spinner  spinner.Model
	ticking  bool
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New returns a Model for opts.
func New(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := &Model{
		ctx:        ctx,
		brew:       opts.Brew,
		history:    opts.History,
		tr:         opts.Translator,
		log:        log.WithComponent("tui"),
		changes:    opts.Changes,
		sheet:      Stylesheet(),
		runOnStart: opts.RunOnStart,
		spinner:    sp,
		viewport:   viewport.New(80, 24),
	}
	m.rebuild()
	return m
}

// Init loads the last stored run and subscribes to Cellar changes.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadLastRunCmd(), waitForChange(m.changes)}
	if m.runOnStart {
		m.onRunDoctor()
		cmds = append(cmds, m.drain()...)
		m.ticking = true
		cmds = append(cmds, m.spinner.Tick)
		m.rebuild()
	}
	return tea.Batch(cmds...)
}

// Update handles a message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-1, 1) // status line
		m.ready = true

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if cmd := m.handleMouse(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		if !m.busy() {
			m.ticking = false
			break
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case doctorFinishedMsg:
		m.running = false
		if msg.err != nil {
			m.log.Error("brew doctor failed", "error", msg.err)
			m.setStatus(m.tr.T("status.doctorFailed", i18n.P("error", msg.err)), true)
			break
		}
		m.log.Info("brew doctor finished", "deprecated", len(msg.deprecated), "duration", msg.finished.Sub(msg.started).String())
		m.doctorLog = msg.output
		m.deprecated = msg.deprecated
		m.setStatus(m.tr.T("status.doctorFinished", i18n.P("count", len(msg.deprecated))), false)

	case detailsLoadedMsg:
		if m.loadingDetailsFor == msg.name {
			m.loadingDetailsFor = ""
		}
		if msg.err != nil {
			m.log.Warn("loading details failed", "package", msg.name, "error", msg.err)
			m.setStatus(m.tr.T("status.detailsFailed", i18n.P("name", msg.name), i18n.P("error", msg.err)), true)
			break
		}
		// A later selection wins over a slow earlier one.
		if m.selected != nil && m.selected.Name == msg.name {
			m.selected = msg.entry
			m.clearStatus()
		}

	case uninstallFinishedMsg:
		m.uninstalling = ""
		m.appendLog(msg.output)
		if msg.err != nil {
			m.log.Error("uninstall failed", "package", msg.name, "error", msg.err)
			m.setStatus(m.tr.T("status.uninstallFailed", i18n.P("name", msg.name), i18n.P("error", msg.err)), true)
			break
		}
		m.log.Info("uninstalled", "package", msg.name)
		m.deprecated = slices.DeleteFunc(slices.Clone(m.deprecated), func(n string) bool { return n == msg.name })
		if m.selected != nil && m.selected.Name == msg.name {
			m.selected = nil
			m.loadingDetailsFor = ""
		}
		m.setStatus(m.tr.T("status.uninstalled", i18n.P("name", msg.name)), false)

	case lastRunLoadedMsg:
		if msg.err != nil {
			m.log.Warn("loading last doctor run failed", "error", msg.err)
			break
		}
		// Never clobber a run that finished first.
		if msg.run != nil && m.doctorLog == "" && len(m.deprecated) == 0 && !m.running {
			m.doctorLog = msg.run.Output
			m.deprecated = msg.run.Deprecated
		}

	case cellarChangedMsg:
		m.log.Info("cellar changed", "packages", msg.change.Packages)
		for _, name := range msg.change.Packages {
			m.brew.Invalidate(name)
		}
		m.setStatus(m.tr.T("status.cellarChanged"), false)
		cmds = append(cmds, m.refreshDeprecatedCmd(), waitForChange(m.changes))
		if m.selected != nil && slices.Contains(msg.change.Packages, m.selected.Name) {
			cmds = append(cmds, m.loadDetailsCmd(m.selected.Name))
		}

	case deprecatedRefreshedMsg:
		if msg.err != nil {
			m.log.Warn("refreshing deprecated formulae failed", "error", msg.err)
			break
		}
		m.deprecated = refreshDeprecated(m.deprecated, msg.names)
		m.clearStatus()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.drain()...)
	if m.busy() && !m.ticking {
		m.ticking = true
		cmds = append(cmds, m.spinner.Tick)
	}
	m.rebuild()
	return m, tea.Batch(cmds...)
}

// View renders the screen.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}
	return m.viewport.View() + "\n" + m.statusLine()
}

// Props returns the doctor view's props for the current state.
func (m *Model) Props() doctor.Props {
	return doctor.Props{
		DoctorLog:                 m.doctorLog,
		DeprecatedFormulae:        m.deprecated,
		SelectedDeprecatedPackage: m.selected,
		LoadingDetailsFor:         m.loadingDetailsFor,
		OnClearLog:                m.onClearLog,
		OnRunDoctor:               m.onRunDoctor,
		OnSelectDeprecated:        m.onSelect,
		OnSelectDependency:        m.onSelect,
		OnUninstallDeprecated:     m.onUninstall,
	}
}

func (m *Model) onClearLog() {
	m.doctorLog = ""
	m.clearStatus()
}

func (m *Model) onRunDoctor() {
	if m.running {
		m.log.Debug("brew doctor already running")
		return
	}
	m.running = true
	m.setStatus(m.tr.T("status.runningDoctor"), false)
	m.pending = append(m.pending, m.runDoctorCmd())
}

func (m *Model) onSelect(name string) {
	m.loadingDetailsFor = name
	m.selected = &brew.PackageEntry{Name: name}
	m.setStatus(m.tr.T("status.loadingDetails", i18n.P("name", name)), false)
	m.pending = append(m.pending, m.loadDetailsCmd(name))
}

func (m *Model) onUninstall(name string) {
	if m.uninstalling != "" {
		m.log.Debug("uninstall already running", "package", m.uninstalling)
		return
	}
	m.uninstalling = name
	m.setStatus(m.tr.T("status.uninstalling", i18n.P("name", name)), false)
	m.pending = append(m.pending, m.uninstallCmd(name))
}

// drain returns and clears the commands queued by view callbacks.
func (m *Model) drain() []tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return cmds
}

func (m *Model) busy() bool {
	return m.running || m.uninstalling != "" || m.loadingDetailsFor != ""
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	if !m.busy() {
		m.setStatus("", false)
	}
}

func (m *Model) appendLog(out string) {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return
	}
	if m.doctorLog != "" && !strings.HasSuffix(m.doctorLog, "\n") {
		m.doctorLog += "\n"
	}
	m.doctorLog += out + "\n"
}

func (m *Model) statusLine() string {
	text := m.status
	if text == "" {
		text = m.tr.T("status.help")
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	style := statusStyle
	if m.statusErr {
		style = statusErrorStyle
	}
	line := style.Render(text)
	if m.busy() {
		line = m.spinner.View() + " " + line
	}
	if m.width > 0 && lipgloss.Width(line) > m.width {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}

// rebuild renders the view tree for the current state into the viewport.
func (m *Model) rebuild() {
	m.root = doctor.View(m.Props(), m.tr)

	keys := ui.Focusables(m.root)
	if i := slices.Index(keys, m.focusKey); i >= 0 {
		m.focusIndex = i
	} else if len(keys) > 0 {
		// The focused node went away; stay at the same position.
		m.focusIndex = min(m.focusIndex, len(keys)-1)
		m.focusKey = keys[m.focusIndex]
	} else {
		m.focusIndex, m.focusKey = 0, ""
	}
	if n := ui.Find(m.root, m.focusKey); n != nil {
		n.Classes = append(n.Classes, focusedClass)
	}

	content, zones := ui.Render(m.root, m.sheet)
	m.zones = zones
	m.viewport.SetContent(content)
}

// refreshDeprecated keeps the current order for formulae still deprecated
// and appends newly deprecated ones.
func refreshDeprecated(current, fresh []string) []string {
	kept := make([]string, 0, len(current))
	for _, name := range current {
		if slices.Contains(fresh, name) {
			kept = append(kept, name)
		}
	}
	return brew.MergeDeprecated(kept, fresh)
}
