package app

import (
	"fmt"

	"github.com/blackwell-systems/brewdesk/internal/packageinfo"
	"github.com/blackwell-systems/brewdesk/internal/tui"
	"github.com/blackwell-systems/brewdesk/internal/ui"
	"github.com/spf13/cobra"
)

var infoAvailable bool

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show details for a formula or cask",
	Long: `Shows the same package details panel as the doctor screen: version,
description, homepage, size, dependencies and conflicts.

By default the installed version is shown. Use --available to show the
latest version instead, e.g. for packages that are not installed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoAvailable, "available", false, "show the latest available version instead of the installed one")
	RootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	entry, err := e.client.Info(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get info for %s: %w", args[0], brewError(err))
	}

	mode := packageinfo.ModeInstalled
	if infoAvailable || !entry.IsInstalled {
		mode = packageinfo.ModeAvailable
	}
	root := packageinfo.View(packageinfo.Props{Entry: entry, Mode: mode}, e.tr)
	out, _ := ui.Render(root, tui.Stylesheet())
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
