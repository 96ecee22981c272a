package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/doctor"
	"github.com/blackwell-systems/brewdesk/internal/i18n"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/blackwell-systems/brewdesk/internal/watcher"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doctorOutput = `Warning: Some installed formulae are deprecated or disabled.
You should find replacements for the following formulae:
  wget
`

type fakeBrew struct {
	mu sync.Mutex

	doctorOut    string
	doctorErr    error
	deprecated   []string
	infos        map[string]*brew.PackageEntry
	uninstallOut string
	uninstallErr error

	calls       []string
	invalidated []string
}

func (f *fakeBrew) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBrew) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBrew) Doctor(ctx context.Context) (string, error) {
	f.record("doctor")
	return f.doctorOut, f.doctorErr
}

func (f *fakeBrew) ListDeprecated(ctx context.Context) ([]string, error) {
	f.record("list")
	return f.deprecated, nil
}

func (f *fakeBrew) Info(ctx context.Context, name string) (*brew.PackageEntry, error) {
	f.record("info " + name)
	if e, ok := f.infos[name]; ok {
		return e, nil
	}
	return nil, brew.ErrNotFound
}

func (f *fakeBrew) Uninstall(ctx context.Context, name string) (string, error) {
	f.record("uninstall " + name)
	return f.uninstallOut, f.uninstallErr
}

func (f *fakeBrew) Invalidate(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, name)
}

func newFakeBrew() *fakeBrew {
	return &fakeBrew{
		doctorOut:  doctorOutput,
		deprecated: []string{"python@3.8", "wget"},
		infos: map[string]*brew.PackageEntry{
			"wget":       {Name: "wget", InstalledVersion: "1.21.4", LatestVersion: "1.24.5", Dependencies: []string{"openssl@3"}},
			"python@3.8": {Name: "python@3.8", InstalledVersion: "3.8.18"},
			"openssl@3":  {Name: "openssl@3", InstalledVersion: "3.2.0"},
		},
		uninstallOut: "Uninstalling /opt/homebrew/Cellar/wget/1.21.4... (91 files, 4.5MB)\n",
	}
}

func newTestModel(t *testing.T, fb *fakeBrew) (*Model, *store.Store) {
	t.Helper()
	bundle, err := i18n.Load()
	require.NoError(t, err)

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := New(Options{Brew: fb, History: st, Translator: bundle.Translator("en")})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return m, st
}

// settle runs cmd and every command that follows from it, feeding the
// resulting messages back into m. Spinner ticks are dropped.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "commands did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		settle(t, m, cmd)
	}
}

func click(t *testing.T, m *Model, key string) {
	t.Helper()
	z, ok := m.zones.Zone(key)
	require.True(t, ok, "no zone for %s", key)
	_, cmd := m.Update(tea.MouseMsg{
		X:      z.Left,
		Y:      z.Top - m.viewport.YOffset,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	settle(t, m, cmd)
}

func runDoctor(t *testing.T, m *Model) {
	t.Helper()
	press(t, m, "r")
}

func TestView_BeforeAndAfterSize(t *testing.T) {
	bundle, err := i18n.Load()
	require.NoError(t, err)
	m := New(Options{Brew: newFakeBrew(), Translator: bundle.Translator("en")})
	assert.Empty(t, m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Homebrew Doctor")
	assert.Contains(t, view, "No output yet")
	assert.Contains(t, view, "q quit")
}

func TestRunDoctor(t *testing.T) {
	fb := newFakeBrew()
	m, st := newTestModel(t, fb)

	runDoctor(t, m)

	assert.False(t, m.running)
	assert.Equal(t, doctorOutput, m.doctorLog)
	assert.Equal(t, []string{"wget", "python@3.8"}, m.deprecated)
	assert.Equal(t, "Doctor finished, 2 deprecated formulae found", m.status)
	assert.Contains(t, m.View(), "Deprecated Formulae")

	run, err := st.LatestDoctorRun()
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, doctorOutput, run.Output)
	assert.Equal(t, []string{"wget", "python@3.8"}, run.Deprecated)
}

func TestRunDoctor_IgnoredWhileRunning(t *testing.T) {
	fb := newFakeBrew()
	m, _ := newTestModel(t, fb)

	_, first := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	_, second := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.True(t, m.running)
	settle(t, m, first)
	settle(t, m, second)

	assert.Equal(t, 1, fb.count("doctor"))
}

func TestRunDoctor_Failure(t *testing.T) {
	fb := newFakeBrew()
	fb.doctorOut = ""
	fb.doctorErr = brew.ErrBrewMissing
	m, st := newTestModel(t, fb)

	runDoctor(t, m)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "brew doctor failed")
	assert.Empty(t, m.deprecated)

	run, err := st.LatestDoctorRun()
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Contains(t, run.Error, "brew")
}

func TestClearLog(t *testing.T) {
	m, _ := newTestModel(t, newFakeBrew())
	runDoctor(t, m)
	require.NotEmpty(t, m.doctorLog)

	press(t, m, "c")
	assert.Empty(t, m.doctorLog)
	assert.Len(t, m.deprecated, 2)
}

func TestKeyboardSelect(t *testing.T) {
	fb := newFakeBrew()
	m, _ := newTestModel(t, fb)
	runDoctor(t, m)

	// clear, run, then the wget row
	press(t, m, "tab", "tab")
	require.Equal(t, doctor.RowKey("wget"), m.focusKey)

	press(t, m, "enter")
	require.NotNil(t, m.selected)
	assert.Equal(t, "1.21.4", m.selected.InstalledVersion)
	assert.Empty(t, m.loadingDetailsFor)
	assert.Equal(t, 1, fb.count("info wget"))
	assert.Contains(t, m.View(), "Installed: 1.21.4")

	press(t, m, " ")
	assert.Equal(t, 2, fb.count("info wget"))
	assert.Equal(t, 0, fb.count("uninstall wget"))
}

func TestFocusWraps(t *testing.T) {
	m, _ := newTestModel(t, newFakeBrew())
	assert.Equal(t, doctor.KeyClearLog, m.focusKey)

	press(t, m, "k")
	assert.Equal(t, doctor.KeyRunDoctor, m.focusKey)
	press(t, m, "j")
	assert.Equal(t, doctor.KeyClearLog, m.focusKey)
}

func TestMouseSelectAndDependency(t *testing.T) {
	fb := newFakeBrew()
	m, _ := newTestModel(t, fb)
	runDoctor(t, m)

	click(t, m, doctor.RowKey("wget"))
	require.NotNil(t, m.selected)
	assert.Equal(t, "wget", m.selected.Name)
	assert.Equal(t, doctor.RowKey("wget"), m.focusKey)

	click(t, m, "dep/openssl@3")
	require.NotNil(t, m.selected)
	assert.Equal(t, "openssl@3", m.selected.Name)
	assert.Equal(t, "3.2.0", m.selected.InstalledVersion)
}

func TestMouseSelect_Scrolled(t *testing.T) {
	fb := newFakeBrew()
	m, _ := newTestModel(t, fb)
	runDoctor(t, m)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 4})

	// clear, run, then the wget row, which no longer fits on screen
	press(t, m, "tab", "tab")
	require.Equal(t, doctor.RowKey("wget"), m.focusKey)
	require.Positive(t, m.viewport.YOffset)

	click(t, m, doctor.RowKey("wget"))
	require.NotNil(t, m.selected)
	assert.Equal(t, "wget", m.selected.Name)
}

func TestMouseUninstall(t *testing.T) {
	fb := newFakeBrew()
	m, st := newTestModel(t, fb)
	runDoctor(t, m)
	click(t, m, doctor.RowKey("wget"))
	infoCalls := fb.count("info wget")

	click(t, m, doctor.UninstallKey("wget"))

	assert.Equal(t, 1, fb.count("uninstall wget"))
	assert.Equal(t, infoCalls, fb.count("info wget"), "uninstall click must not select")
	assert.Equal(t, []string{"python@3.8"}, m.deprecated)
	assert.Nil(t, m.selected)
	assert.Contains(t, m.doctorLog, "Uninstalling /opt/homebrew/Cellar/wget")
	assert.Equal(t, "Uninstalled wget", m.status)

	removals, err := st.ListRemovals(0)
	require.NoError(t, err)
	require.Len(t, removals, 1)
	assert.Equal(t, "wget", removals[0].Package)
	assert.True(t, removals[0].Succeeded())
}

func TestUninstallFailure(t *testing.T) {
	fb := newFakeBrew()
	fb.uninstallOut = "Error: Refusing to uninstall wget because it is required by curl"
	fb.uninstallErr = errors.New("exit status 1")
	m, st := newTestModel(t, fb)
	runDoctor(t, m)

	m.Props().OnUninstallDeprecated("wget")
	settle(t, m, tea.Batch(m.drain()...))

	assert.True(t, m.statusErr)
	assert.Equal(t, []string{"wget", "python@3.8"}, m.deprecated)
	assert.True(t, strings.HasSuffix(m.doctorLog, "required by curl\n"))

	removals, err := st.ListRemovals(0)
	require.NoError(t, err)
	require.Len(t, removals, 1)
	assert.False(t, removals[0].Succeeded())
}

func TestDetails_LaterSelectionWins(t *testing.T) {
	fb := newFakeBrew()
	m, _ := newTestModel(t, fb)
	runDoctor(t, m)

	m.Props().OnSelectDeprecated("wget")
	slow := m.drain()
	m.Props().OnSelectDeprecated("python@3.8")
	fast := m.drain()

	settle(t, m, tea.Batch(fast...))
	settle(t, m, tea.Batch(slow...))

	require.NotNil(t, m.selected)
	assert.Equal(t, "python@3.8", m.selected.Name)
	assert.Empty(t, m.loadingDetailsFor)
}

func TestDetails_Failure(t *testing.T) {
	m, _ := newTestModel(t, newFakeBrew())
	m.Props().OnSelectDeprecated("ghost")
	assert.Equal(t, "ghost", m.loadingDetailsFor)
	settle(t, m, tea.Batch(m.drain()...))

	assert.Empty(t, m.loadingDetailsFor)
	assert.True(t, m.statusErr)
	require.NotNil(t, m.selected)
	assert.Equal(t, "ghost", m.selected.Name)
}

func TestLastRunRestored(t *testing.T) {
	fb := newFakeBrew()
	m, st := newTestModel(t, fb)
	_, err := st.RecordDoctorRun(&store.DoctorRun{Output: "stored log", Deprecated: []string{"youtube-dl"}})
	require.NoError(t, err)

	settle(t, m, m.Init())
	assert.Equal(t, "stored log", m.doctorLog)
	assert.Equal(t, []string{"youtube-dl"}, m.deprecated)
}

func TestRunOnStart(t *testing.T) {
	bundle, err := i18n.Load()
	require.NoError(t, err)
	fb := newFakeBrew()
	m := New(Options{Brew: fb, Translator: bundle.Translator("en"), RunOnStart: true})

	settle(t, m, m.Init())
	assert.Equal(t, 1, fb.count("doctor"))
	assert.Equal(t, doctorOutput, m.doctorLog)
}

func TestCellarChange(t *testing.T) {
	fb := newFakeBrew()
	changes := make(chan watcher.Change, 1)
	bundle, err := i18n.Load()
	require.NoError(t, err)
	m := New(Options{Brew: fb, Translator: bundle.Translator("en"), Changes: changes})
	runDoctor(t, m)

	m.Props().OnSelectDeprecated("wget")
	settle(t, m, tea.Batch(m.drain()...))

	fb.deprecated = []string{"wget", "youtube-dl"}
	changes <- watcher.Change{Packages: []string{"python@3.8", "wget"}}
	close(changes)
	settle(t, m, waitForChange(changes))

	assert.Equal(t, []string{"python@3.8", "wget"}, fb.invalidated)
	assert.Equal(t, []string{"wget", "youtube-dl"}, m.deprecated)
	assert.Equal(t, 2, fb.count("info wget"))
}

func TestRefreshDeprecated(t *testing.T) {
	got := refreshDeprecated([]string{"wget", "curl", "jq"}, []string{"aaa", "jq", "wget"})
	assert.Equal(t, []string{"wget", "jq", "aaa"}, got)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, newFakeBrew())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
