package tui

import (
	"time"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/blackwell-systems/brewdesk/internal/watcher"
)

// doctorFinishedMsg carries the result of a brew doctor run.
type doctorFinishedMsg struct {
	output     string
	deprecated []string
	started    time.Time
	finished   time.Time
	err        error
}

// detailsLoadedMsg carries package details requested by a selection.
type detailsLoadedMsg struct {
	name  string
	entry *brew.PackageEntry
	err   error
}

// uninstallFinishedMsg carries the result of an uninstall.
type uninstallFinishedMsg struct {
	name   string
	output string
	err    error
}

// deprecatedRefreshedMsg carries the deprecated list after a Cellar change.
type deprecatedRefreshedMsg struct {
	names []string
	err   error
}

// lastRunLoadedMsg carries the most recent stored doctor run, if any.
type lastRunLoadedMsg struct {
	run *store.DoctorRun
	err error
}

// cellarChangedMsg is delivered for each watcher change.
type cellarChangedMsg struct {
	change watcher.Change
}
