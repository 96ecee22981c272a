package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the doctor screen until the user quits.
func Run(opts Options, mouse bool) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	if mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	_, err := tea.NewProgram(New(opts), programOpts...).Run()
	return err
}
