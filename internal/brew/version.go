package brew

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// HasUpdate reports whether the entry's latest version is newer than the
// installed one. Homebrew revision suffixes ("_1") are compared after the
// version itself. Versions that are not semver-like fall back to a plain
// inequality check.
func (e *PackageEntry) HasUpdate() bool {
	if e == nil || e.InstalledVersion == "" || e.LatestVersion == "" {
		return false
	}

	iv, irev := splitRevision(e.InstalledVersion)
	lv, lrev := splitRevision(e.LatestVersion)

	installed, err1 := semver.NewVersion(iv)
	latest, err2 := semver.NewVersion(lv)
	if err1 != nil || err2 != nil {
		return e.InstalledVersion != e.LatestVersion
	}

	if latest.GreaterThan(installed) {
		return true
	}
	return latest.Equal(installed) && lrev > irev
}

func splitRevision(v string) (string, int) {
	i := strings.LastIndexByte(v, '_')
	if i < 0 {
		return v, 0
	}
	rev, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return v, 0
	}
	return v[:i], rev
}
