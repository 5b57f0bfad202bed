package runner

import "fmt"

// UnknownTaskError reports a run request naming a task the file does not declare.
type UnknownTaskError struct {
	Task string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q", e.Task)
}

// SubstitutionError reports an unresolvable placeholder in a command line.
type SubstitutionError struct {
	Task         string
	CommandIndex int
	Ref          string
	Err          error
}

func (e *SubstitutionError) Error() string {
	msg := fmt.Sprintf("task %q: command %d: cannot resolve %s", e.Task, e.CommandIndex+1, e.Ref)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SubstitutionError) Unwrap() error { return e.Err }

// ExecutionError reports a command line that exited non-zero (or failed to spawn).
type ExecutionError struct {
	Task         string
	CommandIndex int
	ExitCode     int
	Err          error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task %q: command %d: %v", e.Task, e.CommandIndex+1, e.Err)
	}
	return fmt.Sprintf("task %q: command %d exited with code %d", e.Task, e.CommandIndex+1, e.ExitCode)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
