package taskfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultShell is used when a taskfile declares no interpreter.
var DefaultShell = []string{"sh", "-c"}

// DefaultSecretCommand retrieves secrets via the 1Password CLI.
var DefaultSecretCommand = []string{"op", "read"}

// Taskfile is the parsed, immutable form of a task file.
type Taskfile struct {
	Shell   ShellLine         `yaml:"shell"`
	Args    bool              `yaml:"args"`
	Dotenv  []string          `yaml:"dotenv"`
	Env     map[string]string `yaml:"env"`
	Secrets SecretConfig      `yaml:"secrets"`
	Tasks   TaskList          `yaml:"tasks"`

	dotenvValues map[string]string
}

// SecretConfig names the external secret-retrieval command. The secret
// identifier is appended as the final argument.
type SecretConfig struct {
	Command []string `yaml:"command"`
}

// Task owns an ordered list of command lines plus its declared parameters.
type Task struct {
	Name string            `yaml:"-"`
	Desc string            `yaml:"desc"`
	Args *bool             `yaml:"args"`
	Env  map[string]string `yaml:"env"`
	Cmds []string          `yaml:"cmds"`
}

// ArgsEnabled reports whether positional arguments bind into this task,
// honoring the per-task override of the file-level flag.
func (t *Task) ArgsEnabled(fileDefault bool) bool {
	if t.Args != nil {
		return *t.Args
	}
	return fileDefault
}

// UnmarshalYAML accepts the shorthand forms for a task body: a single
// command string, a list of command strings, or the full mapping.
func (t *Task) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var cmd string
		if err := node.Decode(&cmd); err != nil {
			return err
		}
		t.Cmds = []string{cmd}
		return nil
	case yaml.SequenceNode:
		return node.Decode(&t.Cmds)
	case yaml.MappingNode:
		type plain Task
		return node.Decode((*plain)(t))
	default:
		return fmt.Errorf("line %d: task body must be a string, a list, or a mapping", node.Line)
	}
}

// TaskList preserves the declaration order of the tasks mapping.
type TaskList []*Task

// UnmarshalYAML walks the mapping node pairwise so file order survives.
func (l *TaskList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tasks must be a mapping of name to task", node.Line)
	}
	seen := make(map[string]bool)
	for i := 0; i < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var name string
		if err := keyNode.Decode(&name); err != nil {
			return err
		}
		if seen[name] {
			return fmt.Errorf("line %d: duplicate task %q", keyNode.Line, name)
		}
		seen[name] = true
		task := &Task{Name: name}
		if err := valueNode.Decode(task); err != nil {
			return err
		}
		*l = append(*l, task)
	}
	return nil
}

// ShellLine is the interpreter argv; the resolved command line is appended
// as its final argument. A scalar form is split on whitespace.
type ShellLine []string

func (s *ShellLine) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var line string
		if err := node.Decode(&line); err != nil {
			return err
		}
		*s = strings.Fields(line)
		return nil
	case yaml.SequenceNode:
		var argv []string
		if err := node.Decode(&argv); err != nil {
			return err
		}
		*s = argv
		return nil
	default:
		return fmt.Errorf("line %d: shell must be a string or a list", node.Line)
	}
}

// Task looks a task up by name.
func (tf *Taskfile) Task(name string) (*Task, bool) {
	for _, task := range tf.Tasks {
		if task.Name == name {
			return task, true
		}
	}
	return nil, false
}

// Names returns the task names in file order.
func (tf *Taskfile) Names() []string {
	names := make([]string, len(tf.Tasks))
	for i, task := range tf.Tasks {
		names[i] = task.Name
	}
	return names
}

// DotenvValues returns the variables read from the declared dotenv files.
func (tf *Taskfile) DotenvValues() map[string]string {
	return tf.dotenvValues
}

// ParseError reports a malformed or semantically invalid task file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse taskfile: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes and validates a task file.
func Parse(data []byte) (*Taskfile, error) {
	var tf Taskfile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := validate(&tf); err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(tf.Shell) == 0 {
		tf.Shell = DefaultShell
	}
	if len(tf.Secrets.Command) == 0 {
		tf.Secrets.Command = DefaultSecretCommand
	}
	return &tf, nil
}

// Load reads a task file from disk and loads any dotenv files it declares,
// resolved relative to the taskfile's directory. Missing dotenv files are
// skipped; unreadable ones fail the load.
func Load(path string) (*Taskfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	tf, err := Parse(data)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return nil, &ParseError{Path: path, Err: parseErr.Err}
		}
		return nil, err
	}

	dir := filepath.Dir(path)
	for _, dotenv := range tf.Dotenv {
		envPath := dotenv
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(dir, envPath)
		}
		values, err := godotenv.Read(envPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &ParseError{Path: path, Err: fmt.Errorf("dotenv %s: %w", dotenv, err)}
		}
		if tf.dotenvValues == nil {
			tf.dotenvValues = make(map[string]string, len(values))
		}
		for name, value := range values {
			tf.dotenvValues[name] = value
		}
	}
	return tf, nil
}

func validate(tf *Taskfile) error {
	if len(tf.Tasks) == 0 {
		return fmt.Errorf("no tasks declared")
	}
	for _, task := range tf.Tasks {
		if len(task.Cmds) == 0 {
			return fmt.Errorf("task %q has no command lines", task.Name)
		}
		for i, cmd := range task.Cmds {
			if strings.TrimSpace(cmd) == "" {
				return fmt.Errorf("task %q: command %d is empty", task.Name, i+1)
			}
		}
	}
	return nil
}
