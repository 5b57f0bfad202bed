package cmd

import (
	"fmt"

	"github.com/sandwichlabs/trun/internal/taskfile"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tasks declared in the task file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := taskfile.Load(taskfilePath)
		if err != nil {
			return err
		}
		for _, task := range tf.Tasks {
			if task.Desc != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "* %s: %s\n", task.Name, task.Desc)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "* %s\n", task.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
