package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sandwichlabs/trun/internal/taskfile"
	"github.com/spf13/cobra"
)

type inspectedTask struct {
	Name string   `json:"name"`
	Desc string   `json:"desc,omitempty"`
	Args bool     `json:"args"`
	Cmds []string `json:"cmds"`
}

type inspectedConfig struct {
	Shell         []string        `json:"shell"`
	SecretCommand []string        `json:"secret_command"`
	Tasks         []inspectedTask `json:"tasks"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the task file and output its configuration as JSON.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := taskfile.Load(taskfilePath)
		if err != nil {
			return err
		}
		config := inspectedConfig{
			Shell:         []string(tf.Shell),
			SecretCommand: tf.Secrets.Command,
		}
		for _, task := range tf.Tasks {
			config.Tasks = append(config.Tasks, inspectedTask{
				Name: task.Name,
				Desc: task.Desc,
				Args: task.ArgsEnabled(tf.Args),
				Cmds: task.Cmds,
			})
		}
		encoded, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
