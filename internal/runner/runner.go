package runner

import (
	"context"
	"io"
	"log/slog"

	"github.com/sandwichlabs/trun/internal/taskfile"
)

// Runner resolves and executes tasks from a loaded task file. The zero
// value is not usable; construct one with New.
type Runner struct {
	Env      EnvLookup
	Secrets  SecretResolver
	Commands CommandRunner
	Stdout   io.Writer
	Stderr   io.Writer
}

// New builds a Runner wired to the process environment and to the task
// file's secret-retrieval command, with secret values cached per runner.
func New(tf *taskfile.Taskfile, stdin io.Reader, stdout, stderr io.Writer) *Runner {
	commands := &ShellRunner{Stdin: stdin}
	return &Runner{
		Env: OSEnv,
		Secrets: &CachedSecretResolver{
			Next: &CommandSecretResolver{Command: tf.Secrets.Command, Runner: commands},
		},
		Commands: commands,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// ExecutionResult reports how far a task got.
type ExecutionResult struct {
	// ExitCode is the exit code of the last attempted command line.
	ExitCode int
	// FailedIndex is the zero-based index of the failing command line,
	// or -1 when every line exited zero.
	FailedIndex int
}

// Execute spawns each resolved command line under the task file's shell,
// strictly in sequence, stopping at the first non-zero exit.
func (r *Runner) Execute(ctx context.Context, tf *taskfile.Taskfile, taskName string, lines []string) (ExecutionResult, error) {
	for i, line := range lines {
		argv := append(append([]string{}, tf.Shell...), line)
		slog.Debug("executing command line", "task", taskName, "index", i+1, "line", line)

		code, err := r.Commands.Run(ctx, argv, r.Stdout, r.Stderr)
		if err != nil {
			return ExecutionResult{ExitCode: -1, FailedIndex: i},
				&ExecutionError{Task: taskName, CommandIndex: i, ExitCode: -1, Err: err}
		}
		if code != 0 {
			slog.Debug("command line failed", "task", taskName, "index", i+1, "exit_code", code)
			return ExecutionResult{ExitCode: code, FailedIndex: i},
				&ExecutionError{Task: taskName, CommandIndex: i, ExitCode: code}
		}
	}
	return ExecutionResult{ExitCode: 0, FailedIndex: -1}, nil
}

// Run resolves the request and executes the result. Resolution failures
// surface before any child process is spawned.
func (r *Runner) Run(ctx context.Context, tf *taskfile.Taskfile, req RunRequest) (ExecutionResult, error) {
	lines, err := r.Resolve(ctx, tf, req)
	if err != nil {
		return ExecutionResult{ExitCode: -1, FailedIndex: -1}, err
	}
	return r.Execute(ctx, tf, req.Task, lines)
}
