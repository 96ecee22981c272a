package app

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/output"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past doctor runs and uninstalls",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries per section (0 for all)")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListDoctorRuns(historyLimit)
	if err != nil {
		return err
	}
	removals, err := st.ListRemovals(historyLimit)
	if err != nil {
		return err
	}

	now := time.Now()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Doctor runs")
	fmt.Fprint(out, output.RenderDoctorRuns(runs, now))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Uninstalls")
	fmt.Fprint(out, output.RenderRemovals(removals, now))
	return nil
}
