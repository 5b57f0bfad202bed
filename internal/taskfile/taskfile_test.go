package taskfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTaskfile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "Taskfile.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write taskfile: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		tf, err := Parse([]byte(`
shell: [bash, -c]
args: true
env:
  LOG_LEVEL: info
secrets:
  command: [vault, kv, get]
tasks:
  agent:
    desc: Run the support agent.
    cmds:
      - run-agent.sh
  inspector:
    args: false
    env:
      NODE_ENV: production
    cmds:
      - npx inspector --token {{secret:BOT_TOKEN}}
      - echo done
`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if !reflect.DeepEqual([]string(tf.Shell), []string{"bash", "-c"}) {
			t.Errorf("Shell = %v, want [bash -c]", tf.Shell)
		}
		if !tf.Args {
			t.Error("Args = false, want true")
		}
		if !reflect.DeepEqual(tf.Secrets.Command, []string{"vault", "kv", "get"}) {
			t.Errorf("Secrets.Command = %v", tf.Secrets.Command)
		}
		if got := tf.Names(); !reflect.DeepEqual(got, []string{"agent", "inspector"}) {
			t.Errorf("Names() = %v", got)
		}
		agent, ok := tf.Task("agent")
		if !ok {
			t.Fatal("Task(agent) not found")
		}
		if agent.Desc != "Run the support agent." {
			t.Errorf("agent.Desc = %q", agent.Desc)
		}
		if !agent.ArgsEnabled(tf.Args) {
			t.Error("agent should inherit file-level args")
		}
		inspector, _ := tf.Task("inspector")
		if inspector.ArgsEnabled(tf.Args) {
			t.Error("inspector overrides args to false")
		}
		if len(inspector.Cmds) != 2 {
			t.Errorf("inspector.Cmds = %v", inspector.Cmds)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		tf, err := Parse([]byte("tasks:\n  hello:\n    cmds: [echo hi]\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if !reflect.DeepEqual([]string(tf.Shell), DefaultShell) {
			t.Errorf("Shell = %v, want default", tf.Shell)
		}
		if !reflect.DeepEqual(tf.Secrets.Command, DefaultSecretCommand) {
			t.Errorf("Secrets.Command = %v, want default", tf.Secrets.Command)
		}
		if tf.Args {
			t.Error("Args should default to false")
		}
	})

	t.Run("shorthand bodies", func(t *testing.T) {
		tf, err := Parse([]byte(`
tasks:
  single: echo one
  multi:
    - echo one
    - echo two
`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		single, _ := tf.Task("single")
		if !reflect.DeepEqual(single.Cmds, []string{"echo one"}) {
			t.Errorf("single.Cmds = %v", single.Cmds)
		}
		multi, _ := tf.Task("multi")
		if !reflect.DeepEqual(multi.Cmds, []string{"echo one", "echo two"}) {
			t.Errorf("multi.Cmds = %v", multi.Cmds)
		}
	})

	t.Run("scalar shell is split", func(t *testing.T) {
		tf, err := Parse([]byte("shell: bash -c\ntasks:\n  hello: echo hi\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if !reflect.DeepEqual([]string(tf.Shell), []string{"bash", "-c"}) {
			t.Errorf("Shell = %v", tf.Shell)
		}
	})

	t.Run("declaration order survives", func(t *testing.T) {
		tf, err := Parse([]byte(`
tasks:
  zeta: echo z
  alpha: echo a
  mid: echo m
`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got := tf.Names(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
			t.Errorf("Names() = %v, want file order", got)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"malformed yaml", "tasks: [\n", ""},
		{"no tasks", "shell: [sh, -c]\n", "no tasks declared"},
		{"empty tasks", "tasks: {}\n", "no tasks declared"},
		{"task without commands", "tasks:\n  broken: {desc: nothing}\n", "has no command lines"},
		{"blank command line", "tasks:\n  broken:\n    cmds: [\"  \"]\n", "command 1 is empty"},
		{"duplicate task", "tasks:\n  twin: echo a\n  twin: echo b\n", "duplicate task"},
		{"bad task body", "tasks:\n  broken: {cmds: {not: a-list}}\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("Parse() error = nil, want ParseError")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("dotenv values are loaded", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BOT_NAME=support-bot\n"), 0644); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "Taskfile.yml")
		content := "dotenv: [.env]\ntasks:\n  hello: echo $BOT_NAME\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		tf, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got := tf.DotenvValues()["BOT_NAME"]; got != "support-bot" {
			t.Errorf("DotenvValues()[BOT_NAME] = %q", got)
		}
	})

	t.Run("missing dotenv file is skipped", func(t *testing.T) {
		path := writeTaskfile(t, "dotenv: [absent.env]\ntasks:\n  hello: echo hi\n")
		tf, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(tf.DotenvValues()) != 0 {
			t.Errorf("DotenvValues() = %v, want empty", tf.DotenvValues())
		}
	})

	t.Run("missing taskfile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("error = %v, want *ParseError", err)
		}
	})
}
