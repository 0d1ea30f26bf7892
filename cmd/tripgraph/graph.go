package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the workflow graph as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := newPlanner(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), p.Mermaid())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
