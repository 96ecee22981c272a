package brew

import "errors"

// PackageEntry describes a Homebrew formula or cask as shown in the detail
// panel. Entries are snapshots: callers replace them, never mutate them.
type PackageEntry struct {
	Name             string
	InstalledVersion string
	LatestVersion    string
	Size             string // human-readable, e.g. "12 MB"
	Desc             string
	Homepage         string
	Dependencies     []string
	Conflicts        []string
	IsInstalled      bool
	IsCask           bool
}

var (
	// ErrNotFound is returned when brew knows no formula or cask by that name.
	ErrNotFound = errors.New("package not found")
	// ErrBrewMissing is returned when the brew executable cannot be run.
	ErrBrewMissing = errors.New("brew executable not found")
)
