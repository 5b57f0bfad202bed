package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandwichlabs/trun/internal/taskfile"
	"github.com/sandwichlabs/trun/internal/tui"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the task file in an interactive TUI.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := taskfile.Load(taskfilePath)
		if err != nil {
			return err
		}
		program := tea.NewProgram(tui.NewModel(tf), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
