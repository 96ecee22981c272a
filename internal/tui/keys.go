package tui

import (
	"github.com/blackwell-systems/brewdesk/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return tea.Quit

	case "tab", "down", "j":
		m.moveFocus(1)

	case "shift+tab", "up", "k":
		m.moveFocus(-1)

	case ui.KeyEnter, ui.KeySpace:
		if m.focusKey != "" {
			ui.Activate(m.root, m.focusKey, key)
		}

	case "r":
		m.onRunDoctor()

	case "c":
		m.onClearLog()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if msg.Y >= m.viewport.Height {
		return nil
	}

	key, ok := m.zones.Shift(-m.viewport.YOffset).Hit(msg.X, msg.Y)
	if !ok {
		return nil
	}
	if n := ui.Find(m.root, key); n != nil && n.Focusable {
		m.focusKey = key
	}
	ui.Dispatch(m.root, key, ui.NewClick())
	return nil
}

// moveFocus moves focus delta steps through the focusable nodes, wrapping
// at either end, and scrolls the new focus into view.
func (m *Model) moveFocus(delta int) {
	keys := ui.Focusables(m.root)
	if len(keys) == 0 {
		return
	}
	m.focusIndex = ((m.focusIndex+delta)%len(keys) + len(keys)) % len(keys)
	m.focusKey = keys[m.focusIndex]
	m.scrollToFocus()
}

func (m *Model) scrollToFocus() {
	z, ok := m.zones.Zone(m.focusKey)
	if !ok {
		return
	}
	top, height := m.viewport.YOffset, m.viewport.Height
	switch {
	case z.Top < top:
		m.viewport.SetYOffset(z.Top)
	case z.Bottom > top+height:
		m.viewport.SetYOffset(z.Bottom - height)
	}
}
