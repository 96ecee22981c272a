package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configFile string
	dbPath     string
	locale     string

	// RootCmd is the root command for brewdesk
	RootCmd = &cobra.Command{
		Use:   "brewdesk",
		Short: "A terminal desk for Homebrew health checks",
		Long: `brewdesk runs 'brew doctor', shows its findings and helps you deal with
deprecated formulae: inspect what they are, what depends on them, and
uninstall them.

Examples:
  # Open the interactive doctor screen
  brewdesk doctor

  # Print a one-off report, e.g. in CI
  brewdesk doctor --print

  # List installed deprecated formulae
  brewdesk deprecated

  # Show details for a package
  brewdesk info wget

  # Uninstall a package and record it in the history
  brewdesk uninstall wget

  # Show past doctor runs and uninstalls
  brewdesk history`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "brewdesk: Homebrew doctor and deprecated formula cleanup")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'brewdesk doctor' to open the doctor screen.")
			fmt.Fprintln(out, "Run 'brewdesk --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ~/.config/brewdesk/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default: ~/.local/share/brewdesk/history.db)")
	RootCmd.PersistentFlags().StringVar(&locale, "locale", "", "interface language, e.g. de or fr_FR.UTF-8 (default: from the environment)")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// ExecuteContext runs the root command; commands stop when ctx is done.
func ExecuteContext(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}
