package planner

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/tripgraph/log"
)

// costFigure matches a "total ... $1,234.56" style figure in free text.
var costFigure = regexp.MustCompile(`(?i)total[^$\n]*\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// generateItinerary asks the model to synthesize all accumulated results
// into a day-by-day itinerary. A model failure here is terminal for the
// itinerary; the router then falls through to the response generator as
// the degraded-output path.
func (p *Planner) generateItinerary(ctx context.Context, state TripState) (TripState, error) {
	prompt := buildItineraryPrompt(state)

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(cctx, p.model, prompt)
	if err != nil {
		log.Warn("itinerary generation failed: %v", err)
		state.Errors = append(state.Errors, fmt.Sprintf("itinerary generation error: %v", err))
		state.CompletedSteps = append(state.CompletedSteps, StepItineraryGeneration)
		return state, nil
	}

	state.Itinerary = strings.TrimSpace(completion)

	// Estimate the trip cost from the picked options, then prefer a cost
	// figure the model itself stated when one is recognizable.
	estimate := estimateTotalCost(state)
	if estimate > 0 {
		state.TotalCost = estimate
	}
	if parsed, ok := parseCostFigure(completion); ok {
		state.TotalCost = parsed
	}

	state.Recommendations = append(state.Recommendations, buildRecommendations(state)...)
	state.CompletedSteps = append(state.CompletedSteps, StepItineraryGeneration)
	return state, nil
}

// estimateTotalCost sums the best flight (per passenger) and the best
// hotel's total. Activities are left out: they are suggestions, not
// selections.
func estimateTotalCost(s TripState) float64 {
	var total float64
	if f := bestFlight(s.FlightOptions); f != nil {
		total += f.PricePerPerson * float64(s.NumPassengers)
	}
	if h := bestHotel(s.HotelOptions); h != nil {
		total += h.TotalPrice
	}
	return total
}

func parseCostFigure(text string) (float64, bool) {
	m := costFigure.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	cleaned := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// buildRecommendations derives budget and packing hints from the gathered
// data. Budget is informational only; it is never enforced.
func buildRecommendations(s TripState) []string {
	var recs []string

	if s.Budget > 0 && s.TotalCost > 0 {
		remaining := s.Budget - s.TotalCost
		if remaining > 0 {
			recs = append(recs, fmt.Sprintf("You have $%.2f remaining for activities and dining", remaining))
		} else {
			recs = append(recs, fmt.Sprintf("Current selections exceed budget by $%.2f", -remaining))
		}
	}

	if len(s.WeatherForecast) > 0 {
		var sum float64
		for _, day := range s.WeatherForecast {
			sum += day.TempHighC
		}
		avg := sum / float64(len(s.WeatherForecast))
		switch {
		case avg < 10:
			recs = append(recs, "Pack warm clothing - temperatures will be cool")
		case avg > 27:
			recs = append(recs, "Pack light, breathable clothing - warm weather expected")
		}
	}

	return recs
}
