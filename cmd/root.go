package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sandwichlabs/trun/internal/runner"
	"github.com/spf13/cobra"
)

var (
	taskfilePath string
	verbose      bool

	rootCmd = &cobra.Command{
		Use:   "trun",
		Short: "A minimal command-task runner.",
		Long: `trun resolves named tasks from a declarative task file, substitutes
environment variables, secrets, and positional arguments, and executes the
resulting command lines as child processes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&taskfilePath, "taskfile", "t", "Taskfile.yml", "path to the task file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "trun: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps execution failures to the child's exit code and every
// resolution-stage failure (parse, lookup, substitution) to 2, so callers
// can tell the two apart.
func exitCode(err error) int {
	var execErr *runner.ExecutionError
	if errors.As(err, &execErr) {
		if execErr.ExitCode > 0 {
			return execErr.ExitCode
		}
		return 1
	}
	return 2
}
