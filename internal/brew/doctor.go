package brew

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Doctor runs `brew doctor` and returns its output. brew exits non-zero
// whenever it has warnings to report, so a failed exit with output is a
// normal result rather than an error.
func (c *Client) Doctor(ctx context.Context) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.runner.CombinedOutput(ctx, "doctor")
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || len(strings.TrimSpace(string(out))) == 0 {
			return "", fmt.Errorf("brew doctor failed: %w", err)
		}
	}
	return string(out), nil
}

// ParseDeprecated extracts the formulae brew doctor lists under its
// "deprecated or disabled" warning, in the order brew printed them.
//
// Example input:
//
//	Warning: Some installed formulae are deprecated or disabled.
//	You should find replacements for the following formulae:
//	  python@3.8
//	  youtube-dl
func ParseDeprecated(log string) []string {
	var names []string
	seen := make(map[string]struct{})

	inWarning := false
	inList := false
	scanner := bufio.NewScanner(strings.NewReader(log))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Warning:"):
			inWarning = strings.Contains(trimmed, "formulae") &&
				strings.Contains(trimmed, "deprecated")
			inList = false
		case inWarning && !inList && strings.HasSuffix(trimmed, "following formulae:"):
			inList = true
		case inList:
			// The list is indented; anything else ends it.
			if trimmed == "" || line == trimmed {
				inWarning, inList = false, false
				continue
			}
			if _, dup := seen[trimmed]; !dup {
				seen[trimmed] = struct{}{}
				names = append(names, trimmed)
			}
		}
	}
	return names
}

// ListDeprecated returns the installed formulae Homebrew marks deprecated or
// disabled, sorted by name.
func (c *Client) ListDeprecated(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.runner.Output(ctx, "info", "--json=v2", "--installed")
	if err != nil {
		return nil, fmt.Errorf("brew info --installed failed: %w", err)
	}

	var info infoOutput
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("failed to parse brew info output: %w", err)
	}

	var names []string
	for _, f := range info.Formulae {
		if f.Deprecated || f.Disabled {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// MergeDeprecated appends the names in extra that are not already in base,
// keeping base's order first.
func MergeDeprecated(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
