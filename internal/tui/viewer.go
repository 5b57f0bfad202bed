package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandwichlabs/trun/internal/taskfile"
)

type model struct {
	list         list.Model
	quitting     bool
	tasks        *taskfile.Taskfile
	selectedTask *taskfile.Task
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(listItem); ok {
				m.selectedTask = item.task
			}
			return m, nil
		case "esc":
			m.selectedTask = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}

	var cmd tea.Cmd
	if m.selectedTask == nil {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.selectedTask != nil {
		return selectedTaskView(m.selectedTask, m.tasks.Args)
	}
	return m.list.View()
}

func selectedTaskView(task *taskfile.Task, fileArgs bool) string {
	var s strings.Builder
	fmt.Fprintf(&s, "Task: %s\n\n", task.Name)
	if task.Desc != "" {
		fmt.Fprintf(&s, "Description:\n%s\n\n", task.Desc)
	}
	s.WriteString("Commands:\n")
	for i, cmd := range task.Cmds {
		fmt.Fprintf(&s, "  %d. %s\n", i+1, cmd)
	}
	if task.ArgsEnabled(fileArgs) {
		s.WriteString("\nPositional arguments: enabled\n")
	}
	s.WriteString("\n(Press 'esc' to go back, 'q' to quit)")
	return s.String()
}

// listItem wraps a task to satisfy the list.Item interface.
type listItem struct {
	task *taskfile.Task
}

func (li listItem) Title() string       { return li.task.Name }
func (li listItem) Description() string { return li.task.Desc }
func (li listItem) FilterValue() string { return li.task.Name }

func NewModel(tf *taskfile.Taskfile) model {
	items := make([]list.Item, len(tf.Tasks))
	for i, task := range tf.Tasks {
		items[i] = listItem{task}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Available Tasks"

	return model{list: l, tasks: tf}
}
