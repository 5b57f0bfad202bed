package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SecretResolver maps a secret identifier to its value.
type SecretResolver interface {
	Resolve(ctx context.Context, ident string) (string, error)
}

// SecretResolverFunc adapts a function to the SecretResolver interface.
type SecretResolverFunc func(ctx context.Context, ident string) (string, error)

func (f SecretResolverFunc) Resolve(ctx context.Context, ident string) (string, error) {
	return f(ctx, ident)
}

// CommandSecretResolver retrieves secrets by spawning an external command
// with the identifier appended, capturing its stdout trimmed of trailing
// whitespace. A non-zero exit is a retrieval failure.
type CommandSecretResolver struct {
	Command []string
	Runner  CommandRunner
}

func (r *CommandSecretResolver) Resolve(ctx context.Context, ident string) (string, error) {
	slog.Debug("retrieving secret", "ident", ident, "command", r.Command)
	argv := append(append([]string{}, r.Command...), ident)

	var stdout, stderr bytes.Buffer
	code, err := r.Runner.Run(ctx, argv, &stdout, &stderr)
	if err != nil {
		return "", fmt.Errorf("secret command %s: %w", r.Command[0], err)
	}
	if code != 0 {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("secret command %s exited with code %d", r.Command[0], code)
		}
		return "", fmt.Errorf("secret command %s exited with code %d: %s", r.Command[0], code, detail)
	}
	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

// CachedSecretResolver retrieves each identifier at most once and replays
// the value (or the failure) afterwards.
type CachedSecretResolver struct {
	Next SecretResolver

	values map[string]string
	errs   map[string]error
}

func (r *CachedSecretResolver) Resolve(ctx context.Context, ident string) (string, error) {
	if value, ok := r.values[ident]; ok {
		return value, nil
	}
	if err, ok := r.errs[ident]; ok {
		return "", err
	}
	value, err := r.Next.Resolve(ctx, ident)
	if err != nil {
		if r.errs == nil {
			r.errs = make(map[string]error)
		}
		r.errs[ident] = err
		return "", err
	}
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[ident] = value
	return value, nil
}
