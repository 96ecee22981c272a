package app

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/output"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/spf13/cobra"
)

var uninstallYes bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package>",
	Short: "Uninstall a package and record it in the history",
	Long: `Runs 'brew uninstall' for the package after asking for confirmation.
The outcome, including brew's output on failure, is recorded in the
history database and shown by 'brewdesk history'.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "skip the confirmation prompt")
	RootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name := args[0]
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	if !uninstallYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Uninstall %s? [y/N]: ", name)
		reader := bufio.NewReader(cmd.InOrStdin())
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	spinner := output.NewSpinner(cmd.ErrOrStderr(), e.tr.T("status.uninstalling", nameParam(name)))
	spinner.Start()
	out, uerr := e.client.Uninstall(cmd.Context(), name)
	spinner.Stop()

	removal := &store.Removal{Package: name, RemovedAt: time.Now(), Output: out}
	if uerr != nil {
		removal.Error = uerr.Error()
	}
	if st, err := e.openStore(); err != nil {
		e.log.Warn("history unavailable", "error", err)
	} else {
		if _, err := st.RecordRemoval(removal); err != nil {
			e.log.Warn("recording removal failed", "package", name, "error", err)
		}
		st.Close()
	}

	if uerr != nil {
		if out != "" {
			fmt.Fprint(cmd.ErrOrStderr(), out)
		}
		return fmt.Errorf("failed to uninstall %s: %w", name, brewError(uerr))
	}
	fmt.Fprintln(cmd.OutOrStdout(), e.tr.T("status.uninstalled", nameParam(name)))
	return nil
}
