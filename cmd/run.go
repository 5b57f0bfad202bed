package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandwichlabs/trun/internal/runner"
	"github.com/sandwichlabs/trun/internal/taskfile"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <task> [-- <args>...]",
	Short: "Resolve and execute a named task.",
	Long: `run loads the task file, resolves the named task's command lines, and
executes them sequentially, stopping at the first failure. Arguments after
-- bind to {{arg:N}} placeholders when the task enables them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskName := args[0]
		positional := args[1:]
		if at := cmd.ArgsLenAtDash(); at >= 0 {
			if at != 1 {
				return cobra.ExactArgs(1)(cmd, args[:at])
			}
			positional = args[at:]
		}

		tf, err := taskfile.Load(taskfilePath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := runner.New(tf, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
		result, err := r.Run(ctx, tf, runner.RunRequest{Task: taskName, Args: positional})
		if err != nil {
			return err
		}
		slog.Debug("task completed", "task", taskName, "exit_code", result.ExitCode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
