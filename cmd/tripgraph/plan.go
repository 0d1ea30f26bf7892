package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallnest/tripgraph/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan [query]",
	Short: "Plan a trip from a free-text query",
	Example: `  tripgraph plan "Plan a 5-day trip from London to Istanbul in May for 2 people"
  tripgraph plan "What's the weather like in Paris next week?"
  tripgraph plan "Find flights to Tokyo" --origin London --depart 2026-09-10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := newPlanner(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		overrides := &planner.Overrides{}
		overrides.Origin, _ = cmd.Flags().GetString("origin")
		overrides.Destination, _ = cmd.Flags().GetString("destination")
		overrides.DepartureDate, _ = cmd.Flags().GetString("depart")
		overrides.ReturnDate, _ = cmd.Flags().GetString("return")
		overrides.NumPassengers, _ = cmd.Flags().GetInt("passengers")
		overrides.Budget, _ = cmd.Flags().GetFloat64("budget")

		state, err := p.Run(cmd.Context(), strings.Join(args, " "), overrides)
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), state)
		return nil
	},
}

func init() {
	planCmd.Flags().String("origin", "", "Origin city")
	planCmd.Flags().String("destination", "", "Destination city")
	planCmd.Flags().String("depart", "", "Departure date (YYYY-MM-DD)")
	planCmd.Flags().String("return", "", "Return date (YYYY-MM-DD)")
	planCmd.Flags().Int("passengers", 0, "Number of passengers")
	planCmd.Flags().Float64("budget", 0, "Budget in USD")

	rootCmd.AddCommand(planCmd)
}
