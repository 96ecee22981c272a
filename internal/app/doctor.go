package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/doctor"
	"github.com/blackwell-systems/brewdesk/internal/i18n"
	"github.com/blackwell-systems/brewdesk/internal/output"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/blackwell-systems/brewdesk/internal/tui"
	"github.com/blackwell-systems/brewdesk/internal/ui"
	"github.com/blackwell-systems/brewdesk/internal/watcher"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	doctorPrint bool
	doctorNoRun bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run brew doctor and review deprecated formulae",
	Long: `Opens the doctor screen: the output of 'brew doctor', the deprecated
formulae installed on this system and details for the selected one.

Keys:
  tab, shift+tab, ↑/↓, j/k   move focus
  enter, space                activate the focused control
  r                           run brew doctor again
  c                           clear the log
  q                           quit

With --print, brew doctor is run once and the screen is printed to stdout
instead. This is also what happens when stdout is not a terminal.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorPrint, "print", false, "print the report once instead of opening the doctor screen")
	doctorCmd.Flags().BoolVar(&doctorNoRun, "no-run", false, "open the doctor screen without running brew doctor")
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	st, err := e.openStore()
	if err != nil {
		// History is a convenience; the doctor works without it.
		e.log.Warn("history unavailable", "error", err)
	}
	if st != nil {
		defer st.Close()
	}

	if doctorPrint || !isatty.IsTerminal(os.Stdout.Fd()) {
		return printDoctor(cmd, e, st)
	}
	return interactiveDoctor(cmd, e, st)
}

func interactiveDoctor(cmd *cobra.Command, e *env, st *store.Store) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := tui.Options{
		Context:    ctx,
		Brew:       e.client,
		Translator: e.tr,
		Logger:     e.log,
		RunOnStart: !doctorNoRun,
	}
	if st != nil {
		opts.History = st
	}

	if e.cfg.Watch.Enabled {
		if w := startWatcher(ctx, e); w != nil {
			defer w.Close()
			opts.Changes = w.Events()
		}
	}

	return tui.Run(opts, e.cfg.UI.Mouse)
}

// startWatcher watches the Cellar, or returns nil when that is not possible.
func startWatcher(ctx context.Context, e *env) *watcher.Watcher {
	prefix, err := e.client.Prefix(ctx)
	if err != nil {
		e.log.Warn("not watching Cellar: brew --prefix failed", "error", err)
		return nil
	}
	w, err := watcher.New(watcher.Config{
		Dirs:     watcher.DirsForPrefix(prefix),
		Debounce: e.cfg.Watch.Debounce,
	}, e.log)
	if err != nil {
		e.log.Warn("not watching Cellar", "error", err)
		return nil
	}
	w.Start(ctx)
	return w
}

// printDoctor runs brew doctor once and prints the doctor screen.
func printDoctor(cmd *cobra.Command, e *env, st *store.Store) error {
	ctx := cmd.Context()

	spinner := output.NewSpinner(cmd.ErrOrStderr(), e.tr.T("status.runningDoctor"))
	spinner.Start()
	started := time.Now()
	log, err := e.client.Doctor(ctx)
	var deprecated []string
	if err == nil {
		deprecated = brew.ParseDeprecated(log)
		installed, lerr := e.client.ListDeprecated(ctx)
		if lerr != nil {
			e.log.Warn("listing deprecated formulae failed", "error", lerr)
		}
		deprecated = brew.MergeDeprecated(deprecated, installed)
	}
	spinner.Stop()

	if st != nil {
		run := &store.DoctorRun{StartedAt: started, FinishedAt: time.Now(), Output: log, Deprecated: deprecated}
		if err != nil {
			run.Error = err.Error()
		}
		if _, rerr := st.RecordDoctorRun(run); rerr != nil {
			e.log.Warn("recording doctor run failed", "error", rerr)
		}
	}
	if err != nil {
		return fmt.Errorf("brew doctor failed: %w", brewError(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderDoctor(log, deprecated, e.tr))
	return nil
}

func renderDoctor(log string, deprecated []string, tr i18n.Translator) string {
	root := doctor.View(doctor.Props{DoctorLog: log, DeprecatedFormulae: deprecated}, tr)
	out, _ := ui.Render(root, tui.Stylesheet())
	return out
}
