package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// CommandRunner executes a single command vector. Implementations report the
// child's exit code; a non-nil error means the command could not be run at
// all (not that it exited non-zero).
type CommandRunner interface {
	Run(ctx context.Context, argv []string, stdout, stderr io.Writer) (int, error)
}

// ShellRunner runs commands as real OS child processes. A cancelled context
// interrupts the active child, so the runner never leaves orphans behind.
type ShellRunner struct {
	// Stdin is connected to each child when set.
	Stdin io.Reader

	// InterruptGrace bounds how long a child may linger between the
	// interrupt signal and a hard kill. Defaults to 5 seconds.
	InterruptGrace time.Duration
}

func (r *ShellRunner) Run(ctx context.Context, argv []string, stdout, stderr io.Writer) (int, error) {
	if len(argv) == 0 {
		return -1, errors.New("empty command vector")
	}
	slog.Debug("spawning command", "argv", argv)

	// #nosec G204
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.InterruptGrace
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
