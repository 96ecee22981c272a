package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBrew answers the brew calls brewdesk makes. Every invocation is
// appended to calls.log next to the script.
const fakeBrew = `#!/bin/sh
echo "$*" >> "$(dirname "$0")/calls.log"
case "$*" in
"--prefix")
	dirname "$0"
	;;
"doctor")
	echo "Please note that these warnings are just used to help the Homebrew maintainers"
	echo "with debugging if you file an issue."
	echo
	echo "Warning: Some installed formulae are deprecated or disabled."
	echo "You should find replacements for the following formulae:"
	echo "  wget"
	exit 1
	;;
"info --json=v2 --installed")
	echo '{"formulae":[{"name":"wget","deprecated":true},{"name":"git"},{"name":"curl","disabled":true}],"casks":[]}'
	;;
"info --json=v2 wget")
	echo '{"formulae":[{"name":"wget","desc":"Internet file retriever","homepage":"https://www.gnu.org/software/wget/","versions":{"stable":"1.24.5"},"installed":[{"version":"1.21.4"}],"linked_keg":"1.21.4","dependencies":["libidn2","openssl@3"]}],"casks":[]}'
	;;
"info --json=v2 curl")
	echo '{"formulae":[{"name":"curl","versions":{"stable":"8.5.0"},"installed":[{"version":"8.5.0"}],"linked_keg":"8.5.0"}],"casks":[]}'
	;;
"info --json=v2 nope")
	echo 'Error: No available formula with the name "nope".' >&2
	exit 1
	;;
"uninstall wget")
	echo "Uninstalling /opt/homebrew/Cellar/wget/1.21.4... (92 files, 4.4MB)"
	;;
"uninstall curl")
	echo "Error: Refusing to uninstall curl because it is required by git"
	exit 1
	;;
*)
	echo "unexpected: $*" >&2
	exit 2
	;;
esac
`

// setupBrew points brewdesk at the fake brew and at temporary config and
// data directories.
func setupBrew(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "brew")
	require.NoError(t, os.WriteFile(script, []byte(fakeBrew), 0755))

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("BREWDESK_BREW_PATH", script)
	t.Setenv("BREWDESK_WATCH_ENABLED", "false")
	t.Setenv("NO_COLOR", "1")
	return dir
}

// execute runs brewdesk with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(append(args, "--locale", "en"))
	err := RootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags() {
	configFile, dbPath, locale = "", "", ""
	doctorPrint, doctorNoRun = false, false
	infoAvailable = false
	uninstallYes = false
	historyLimit = 10
}

func calls(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "calls.log"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRoot_PrintsTips(t *testing.T) {
	setupBrew(t)
	out, _, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "brewdesk doctor")
}

func TestDoctor_Print(t *testing.T) {
	setupBrew(t)
	out, _, err := execute(t, "", "doctor", "--print")
	require.NoError(t, err)

	assert.Contains(t, out, "Homebrew Doctor")
	assert.Contains(t, out, "Deprecated Formulae")
	assert.Contains(t, out, "You should find replacements")
	// Names parsed from the log come first, then the rest from brew info.
	require.Contains(t, out, "curl")
	assert.Less(t, strings.Index(out, "wget"), strings.Index(out, "curl"))
	assert.Contains(t, out, "brew doctor checks your system")
}

func TestDoctor_PrintRecordsRun(t *testing.T) {
	setupBrew(t)
	_, _, err := execute(t, "", "doctor", "--print")
	require.NoError(t, err)

	out, _, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "wget, curl")
	assert.Contains(t, out, "No uninstalls recorded.")
}

func TestDoctor_BrewMissing(t *testing.T) {
	setupBrew(t)
	t.Setenv("BREWDESK_BREW_PATH", filepath.Join(t.TempDir(), "no-such-brew"))

	_, _, err := execute(t, "", "doctor", "--print")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set brew.path")
}

func TestDeprecated(t *testing.T) {
	setupBrew(t)
	out, _, err := execute(t, "", "deprecated")
	require.NoError(t, err)

	assert.Contains(t, out, "wget")
	assert.Contains(t, out, "1.21.4")
	assert.Contains(t, out, "1.24.5")
	assert.Contains(t, out, "curl")
	assert.NotContains(t, out, "git")
}

func TestInfo(t *testing.T) {
	setupBrew(t)
	out, _, err := execute(t, "", "info", "wget")
	require.NoError(t, err)

	assert.Contains(t, out, "Installed:")
	assert.Contains(t, out, "1.21.4")
	assert.Contains(t, out, "Internet file retriever")
	assert.Contains(t, out, "libidn2")
}

func TestInfo_Available(t *testing.T) {
	setupBrew(t)
	out, _, err := execute(t, "", "info", "wget", "--available")
	require.NoError(t, err)
	assert.Contains(t, out, "Latest:")
	assert.Contains(t, out, "1.24.5")
	assert.NotContains(t, out, "Installed:")
}

func TestInfo_NotFound(t *testing.T) {
	setupBrew(t)
	_, _, err := execute(t, "", "info", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package not found")
}

func TestUninstall_Confirmed(t *testing.T) {
	dir := setupBrew(t)
	out, _, err := execute(t, "y\n", "uninstall", "wget")
	require.NoError(t, err)
	assert.Contains(t, out, "Uninstalled wget")
	assert.Contains(t, calls(t, dir), "uninstall wget")

	out, _, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
}

func TestUninstall_Cancelled(t *testing.T) {
	dir := setupBrew(t)
	out, _, err := execute(t, "n\n", "uninstall", "wget")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.NotContains(t, calls(t, dir), "uninstall wget")
}

func TestUninstall_FailureRecorded(t *testing.T) {
	setupBrew(t)
	_, stderr, err := execute(t, "", "uninstall", "curl", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to uninstall curl")
	assert.Contains(t, stderr, "Refusing to uninstall")

	out, _, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "curl")
	assert.NotContains(t, out, "removed")
}

func TestInvalidConfig(t *testing.T) {
	setupBrew(t)
	t.Setenv("BREWDESK_CACHE_SIZE", "0")

	_, _, err := execute(t, "", "deprecated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.size")
}

func TestExplicitConfigMissing(t *testing.T) {
	setupBrew(t)
	_, _, err := execute(t, "", "deprecated", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
