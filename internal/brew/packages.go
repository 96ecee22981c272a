package brew

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// infoOutput represents the structure of `brew info --json=v2` output
type infoOutput struct {
	Formulae []formulaInfo `json:"formulae"`
	Casks    []caskInfo    `json:"casks"`
}

// formulaInfo represents the formula fields brewdesk reads
type formulaInfo struct {
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Homepage string `json:"homepage"`
	Versions struct {
		Stable string `json:"stable"`
	} `json:"versions"`
	Revision      int                `json:"revision"`
	Installed     []installedVersion `json:"installed"`
	LinkedKeg     string             `json:"linked_keg"`
	Dependencies  []string           `json:"dependencies"`
	ConflictsWith []string           `json:"conflicts_with"`
	Deprecated    bool               `json:"deprecated"`
	Disabled      bool               `json:"disabled"`
}

// installedVersion represents one installed keg of a formula
type installedVersion struct {
	Version string `json:"version"`
}

// caskInfo represents the cask fields brewdesk reads
type caskInfo struct {
	Token     string  `json:"token"`
	Desc      string  `json:"desc"`
	Homepage  string  `json:"homepage"`
	Version   string  `json:"version"`
	Installed *string `json:"installed"` // null when not installed
	DependsOn struct {
		Formula []string `json:"formula"`
		Cask    []string `json:"cask"`
	} `json:"depends_on"`
	ConflictsWith *struct {
		Cask []string `json:"cask"`
	} `json:"conflicts_with"`
	Deprecated bool `json:"deprecated"`
	Disabled   bool `json:"disabled"`
}

// Info returns the details of a formula or cask. Results are cached until
// Invalidate or Purge is called.
func (c *Client) Info(ctx context.Context, name string) (*PackageEntry, error) {
	if entry, ok := c.cache.Get(name); ok {
		return entry, nil
	}

	runCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	out, err := c.runner.Output(runCtx, "info", "--json=v2", name)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && isNoSuchPackage(exitErr.Stderr) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("brew info failed for %s: %w", name, err)
	}

	entry, err := parseInfo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse brew info output for %s: %w", name, err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if entry.IsInstalled {
		if prefix, err := c.Prefix(ctx); err == nil {
			if size, ok := installedSize(prefix, entry); ok {
				entry.Size = size
			}
		}
	}

	c.cache.Add(name, entry)
	return entry, nil
}

// parseInfo converts `brew info --json=v2` output for one package into an
// entry. It returns nil when the output lists neither a formula nor a cask.
func parseInfo(data []byte) (*PackageEntry, error) {
	var info infoOutput
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}

	if len(info.Formulae) > 0 {
		f := info.Formulae[0]
		latest := f.Versions.Stable
		if f.Revision > 0 && latest != "" {
			latest = fmt.Sprintf("%s_%d", latest, f.Revision)
		}

		installed := f.LinkedKeg
		if installed == "" && len(f.Installed) > 0 {
			installed = f.Installed[len(f.Installed)-1].Version
		}

		return &PackageEntry{
			Name:             f.Name,
			InstalledVersion: installed,
			LatestVersion:    latest,
			Desc:             f.Desc,
			Homepage:         f.Homepage,
			Dependencies:     f.Dependencies,
			Conflicts:        f.ConflictsWith,
			IsInstalled:      len(f.Installed) > 0,
			IsCask:           false,
		}, nil
	}

	if len(info.Casks) > 0 {
		k := info.Casks[0]
		entry := &PackageEntry{
			Name:          k.Token,
			LatestVersion: k.Version,
			Desc:          k.Desc,
			Homepage:      k.Homepage,
			IsCask:        true,
		}
		if k.Installed != nil {
			entry.InstalledVersion = *k.Installed
			entry.IsInstalled = true
		}
		entry.Dependencies = append(append([]string{}, k.DependsOn.Formula...), k.DependsOn.Cask...)
		if k.ConflictsWith != nil {
			entry.Conflicts = k.ConflictsWith.Cask
		}
		return entry, nil
	}

	return nil, nil
}

// isNoSuchPackage recognises brew's "unknown name" errors.
func isNoSuchPackage(stderr string) bool {
	return strings.Contains(stderr, "No available formula") ||
		strings.Contains(stderr, "No available cask") ||
		strings.Contains(stderr, "No formula or cask")
}

// installedSize sums the files of the installed keg (or cask staging
// directory) and formats the total for display.
func installedSize(prefix string, entry *PackageEntry) (string, bool) {
	dir := filepath.Join(prefix, "Cellar", entry.Name, entry.InstalledVersion)
	if entry.IsCask {
		dir = filepath.Join(prefix, "Caskroom", entry.Name, entry.InstalledVersion)
	}

	bytes, err := dirSize(dir)
	if err != nil {
		return "", false
	}
	return humanize.Bytes(uint64(bytes)), true
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total, err
}
