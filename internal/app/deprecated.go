package app

import (
	"fmt"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/output"
	"github.com/spf13/cobra"
)

var deprecatedCmd = &cobra.Command{
	Use:   "deprecated",
	Short: "List installed deprecated formulae",
	Long: `Lists every installed formula Homebrew marks as deprecated or disabled,
with its installed and latest version and its size on disk.`,
	Args: cobra.NoArgs,
	RunE: runDeprecated,
}

func init() {
	RootCmd.AddCommand(deprecatedCmd)
}

func runDeprecated(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	spinner := output.NewSpinner(cmd.ErrOrStderr(), "Checking installed formulae...")
	spinner.Start()
	names, err := e.client.ListDeprecated(ctx)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to list deprecated formulae: %w", brewError(err))
	}

	entries := make([]*brew.PackageEntry, 0, len(names))
	for _, name := range names {
		entry, err := e.client.Info(ctx, name)
		if err != nil {
			// Keep the row; the table shows dashes for what is unknown.
			e.log.Warn("package details unavailable", "package", name, "error", err)
			entry = &brew.PackageEntry{Name: name}
		}
		entries = append(entries, entry)
	}
	spinner.Stop()

	fmt.Fprint(cmd.OutOrStdout(), output.RenderDeprecatedTable(entries))
	return nil
}
