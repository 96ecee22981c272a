package brew

import (
	"context"
	"fmt"
)

// Uninstall removes a package via brew uninstall and returns brew's output.
// The package's cached details are dropped whatever the outcome.
func (c *Client) Uninstall(ctx context.Context, name string) (string, error) {
	defer c.Invalidate(name)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.runner.CombinedOutput(ctx, "uninstall", name)
	if err != nil {
		return string(out), fmt.Errorf("brew uninstall %s failed: %w", name, err)
	}
	return string(out), nil
}
