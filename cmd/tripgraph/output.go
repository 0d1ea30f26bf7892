package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smallnest/tripgraph/planner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	faintStyle = lipgloss.NewStyle().Faint(true)

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// printResult renders the final state: the itinerary with its cost and
// recommendations, or the direct response, plus any collected errors.
func printResult(w io.Writer, state planner.TripState) {
	switch {
	case state.Itinerary != "":
		fmt.Fprintln(w, titleStyle.Render("Your Itinerary"))
		fmt.Fprintln(w, state.Itinerary)
		if state.TotalCost > 0 {
			fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Estimated total cost: $%.2f", state.TotalCost)))
		}
		if len(state.Recommendations) > 0 {
			fmt.Fprintln(w, sectionStyle.Render("Recommendations"))
			for _, rec := range state.Recommendations {
				fmt.Fprintf(w, "  - %s\n", rec)
			}
		}
	case state.Response != "":
		fmt.Fprintln(w, state.Response)
	}

	if len(state.Errors) > 0 {
		fmt.Fprintln(w, warnStyle.Render("Some searches did not complete:"))
		for _, e := range state.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	fmt.Fprintln(w, faintStyle.Render(strings.Join([]string{
		"session: " + state.SessionID,
		"steps: " + strings.Join(state.CompletedSteps, ", "),
	}, "\n")))
}
