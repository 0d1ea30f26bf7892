package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume [session-id] [query]",
	Short: "Continue a saved session with a follow-up query",
	Example: `  tripgraph resume 3f6e... "Actually make it business class"
  tripgraph resume 3f6e... "What about the weather there?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := newPlanner(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		state, err := p.Resume(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}
