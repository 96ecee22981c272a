package tui

import (
	"context"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/blackwell-systems/brewdesk/internal/watcher"
	tea "github.com/charmbracelet/bubbletea"
)

// Brew is the subset of brew.Client the doctor screen drives.
type Brew interface {
	Doctor(ctx context.Context) (string, error)
	ListDeprecated(ctx context.Context) ([]string, error)
	Info(ctx context.Context, name string) (*brew.PackageEntry, error)
	Uninstall(ctx context.Context, name string) (string, error)
	Invalidate(name string)
}

// History records what the doctor screen did.
type History interface {
	RecordDoctorRun(run *store.DoctorRun) (string, error)
	LatestDoctorRun() (*store.DoctorRun, error)
	RecordRemoval(r *store.Removal) (int64, error)
}

func (m *Model) runDoctorCmd() tea.Cmd {
	ctx, client, history, log := m.ctx, m.brew, m.history, m.log
	return func() tea.Msg {
		msg := doctorFinishedMsg{started: time.Now()}
		msg.output, msg.err = client.Doctor(ctx)
		if msg.err == nil {
			msg.deprecated = brew.ParseDeprecated(msg.output)
			installed, err := client.ListDeprecated(ctx)
			if err != nil {
				log.Warn("listing deprecated formulae failed", "error", err)
			}
			msg.deprecated = brew.MergeDeprecated(msg.deprecated, installed)
		}
		msg.finished = time.Now()

		if history != nil {
			run := &store.DoctorRun{
				StartedAt:  msg.started,
				FinishedAt: msg.finished,
				Output:     msg.output,
				Deprecated: msg.deprecated,
			}
			if msg.err != nil {
				run.Error = msg.err.Error()
			}
			if _, err := history.RecordDoctorRun(run); err != nil {
				log.Warn("recording doctor run failed", "error", err)
			}
		}
		return msg
	}
}

func (m *Model) loadDetailsCmd(name string) tea.Cmd {
	ctx, client := m.ctx, m.brew
	return func() tea.Msg {
		entry, err := client.Info(ctx, name)
		return detailsLoadedMsg{name: name, entry: entry, err: err}
	}
}

func (m *Model) uninstallCmd(name string) tea.Cmd {
	ctx, client, history, log := m.ctx, m.brew, m.history, m.log
	return func() tea.Msg {
		out, err := client.Uninstall(ctx, name)
		if history != nil {
			r := &store.Removal{Package: name, RemovedAt: time.Now(), Output: out}
			if err != nil {
				r.Error = err.Error()
			}
			if _, rerr := history.RecordRemoval(r); rerr != nil {
				log.Warn("recording removal failed", "package", name, "error", rerr)
			}
		}
		return uninstallFinishedMsg{name: name, output: out, err: err}
	}
}

func (m *Model) refreshDeprecatedCmd() tea.Cmd {
	ctx, client := m.ctx, m.brew
	return func() tea.Msg {
		names, err := client.ListDeprecated(ctx)
		return deprecatedRefreshedMsg{names: names, err: err}
	}
}

func (m *Model) loadLastRunCmd() tea.Cmd {
	history := m.history
	if history == nil {
		return nil
	}
	return func() tea.Msg {
		run, err := history.LatestDoctorRun()
		return lastRunLoadedMsg{run: run, err: err}
	}
}

// waitForChange blocks until the watcher reports a change. It returns nil
// once the channel closes, which ends the subscription.
func waitForChange(ch <-chan watcher.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return cellarChangedMsg{change: change}
	}
}
