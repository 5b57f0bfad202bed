package runner

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/sandwichlabs/trun/internal/taskfile"
)

// RunRequest names a task plus the positional arguments supplied for it.
type RunRequest struct {
	Task string
	Args []string
}

// EnvLookup resolves an environment variable reference.
type EnvLookup func(name string) (value string, ok bool)

// OSEnv reads from the process environment.
func OSEnv(name string) (string, bool) { return os.LookupEnv(name) }

// MapLookup reads from a fixed map. A nil map resolves nothing.
func MapLookup(values map[string]string) EnvLookup {
	return func(name string) (string, bool) {
		value, ok := values[name]
		return value, ok
	}
}

// ChainLookup tries each lookup in order and returns the first hit.
func ChainLookup(lookups ...EnvLookup) EnvLookup {
	return func(name string) (string, bool) {
		for _, lookup := range lookups {
			if lookup == nil {
				continue
			}
			if value, ok := lookup(name); ok {
				return value, true
			}
		}
		return "", false
	}
}

var (
	envPattern    = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
	secretPattern = regexp.MustCompile(`\{\{secret:([^}\s]+)\}\}`)
	argPattern    = regexp.MustCompile(`\{\{arg:([0-9]+)\}\}`)
)

// Resolve looks the requested task up and returns its command lines with
// environment, secret, and positional references substituted. Resolution is
// a single pass per command line, so resolving the same request twice
// against the same environment yields identical output.
func (r *Runner) Resolve(ctx context.Context, tf *taskfile.Taskfile, req RunRequest) ([]string, error) {
	task, ok := tf.Task(req.Task)
	if !ok {
		return nil, &UnknownTaskError{Task: req.Task}
	}

	lookup := ChainLookup(
		r.Env,
		MapLookup(task.Env),
		MapLookup(tf.Env),
		MapLookup(tf.DotenvValues()),
	)
	argsEnabled := task.ArgsEnabled(tf.Args)

	resolved := make([]string, len(task.Cmds))
	for i, line := range task.Cmds {
		line, err := substituteEnv(line, lookup)
		if err != nil {
			return nil, &SubstitutionError{Task: req.Task, CommandIndex: i, Ref: err.ref, Err: err.cause}
		}
		line, err = substituteSecrets(ctx, line, r.Secrets)
		if err != nil {
			return nil, &SubstitutionError{Task: req.Task, CommandIndex: i, Ref: err.ref, Err: err.cause}
		}
		if argsEnabled {
			line, err = substituteArgs(line, req.Args)
			if err != nil {
				return nil, &SubstitutionError{Task: req.Task, CommandIndex: i, Ref: err.ref, Err: err.cause}
			}
		}
		resolved[i] = line
	}
	return resolved, nil
}

// substError carries the literal reference that failed plus its cause.
type substError struct {
	ref   string
	cause error
}

func (e *substError) Error() string { return e.ref }

func substituteEnv(line string, lookup EnvLookup) (string, *substError) {
	var failed *substError
	result := envPattern.ReplaceAllStringFunc(line, func(match string) string {
		if failed != nil {
			return match
		}
		groups := envPattern.FindStringSubmatch(match)
		name, fallback := groups[1], groups[2]
		if name == "" {
			name = groups[3]
		}
		if value, ok := lookup(name); ok {
			return value
		}
		if fallback != "" {
			return fallback[len(":-"):]
		}
		failed = &substError{ref: match, cause: fmt.Errorf("environment variable %s is not set", name)}
		return match
	})
	if failed != nil {
		return "", failed
	}
	return result, nil
}

func substituteSecrets(ctx context.Context, line string, secrets SecretResolver) (string, *substError) {
	var failed *substError
	result := secretPattern.ReplaceAllStringFunc(line, func(match string) string {
		if failed != nil {
			return match
		}
		ident := secretPattern.FindStringSubmatch(match)[1]
		if secrets == nil {
			failed = &substError{ref: match, cause: fmt.Errorf("no secret resolver configured")}
			return match
		}
		value, err := secrets.Resolve(ctx, ident)
		if err != nil {
			failed = &substError{ref: match, cause: err}
			return match
		}
		return value
	})
	if failed != nil {
		return "", failed
	}
	return result, nil
}

func substituteArgs(line string, args []string) (string, *substError) {
	var failed *substError
	result := argPattern.ReplaceAllStringFunc(line, func(match string) string {
		if failed != nil {
			return match
		}
		position, err := strconv.Atoi(argPattern.FindStringSubmatch(match)[1])
		if err != nil || position < 1 || position > len(args) {
			failed = &substError{ref: match, cause: fmt.Errorf("no positional argument %s supplied", match)}
			return match
		}
		return args[position-1]
	})
	if failed != nil {
		return "", failed
	}
	return result, nil
}
