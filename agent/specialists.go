package agent

import (
	"context"
	"fmt"

	"github.com/smallnest/tripgraph/planner"
)

// DefaultSpecialists returns the four search specialists backed by the
// given collaborators. Each one fills exactly its own result field and
// status tag, matching the ownership rules of the graph workflow.
func DefaultSpecialists(collab planner.Collaborators) []Specialist {
	return []Specialist{
		{
			Name:        "flight_specialist",
			Description: "Searches flights between the origin and destination.",
			Run: func(ctx context.Context, state planner.TripState) planner.TripState {
				if state.Origin == "" || state.Destination == "" || state.DepartureDate == "" {
					state.Errors = append(state.Errors, "flight search: missing required parameters")
					state.FlightStatus = planner.StatusFailed
					return state
				}
				flights, err := collab.Flights.SearchFlights(ctx, planner.FlightQuery{
					Origin:        state.Origin,
					Destination:   state.Destination,
					DepartureDate: state.DepartureDate,
					ReturnDate:    state.ReturnDate,
					Passengers:    state.NumPassengers,
				})
				return applyResults(state, flights, err, "flight search",
					func(s *planner.TripState, r []planner.FlightOption, st planner.ResultStatus) {
						s.FlightOptions = r
						s.FlightStatus = st
					})
			},
		},
		{
			Name:        "hotel_specialist",
			Description: "Searches hotels in the destination city.",
			Run: func(ctx context.Context, state planner.TripState) planner.TripState {
				if state.Destination == "" {
					state.Errors = append(state.Errors, "hotel search: missing required parameters")
					state.HotelStatus = planner.StatusFailed
					return state
				}
				hotels, err := collab.Hotels.SearchHotels(ctx, planner.HotelQuery{
					City:     state.Destination,
					CheckIn:  state.DepartureDate,
					CheckOut: state.ReturnDate,
					Guests:   state.NumPassengers,
				})
				return applyResults(state, hotels, err, "hotel search",
					func(s *planner.TripState, r []planner.HotelOption, st planner.ResultStatus) {
						s.HotelOptions = r
						s.HotelStatus = st
					})
			},
		},
		{
			Name:        "weather_specialist",
			Description: "Fetches the forecast for the destination and travel dates.",
			Run: func(ctx context.Context, state planner.TripState) planner.TripState {
				if state.Destination == "" {
					state.Errors = append(state.Errors, "weather check: missing required parameters")
					state.WeatherStatus = planner.StatusFailed
					return state
				}
				forecast, err := collab.Weather.Forecast(ctx, planner.WeatherQuery{
					City:      state.Destination,
					StartDate: state.DepartureDate,
					EndDate:   state.ReturnDate,
				})
				return applyResults(state, forecast, err, "weather check",
					func(s *planner.TripState, r []planner.WeatherDay, st planner.ResultStatus) {
						s.WeatherForecast = r
						s.WeatherStatus = st
					})
			},
		},
		{
			Name:        "activity_specialist",
			Description: "Searches activities and attractions in the destination city.",
			Run: func(ctx context.Context, state planner.TripState) planner.TripState {
				if state.Destination == "" {
					state.Errors = append(state.Errors, "activity search: missing required parameters")
					state.ActivityStatus = planner.StatusFailed
					return state
				}
				activities, err := collab.Activities.SearchActivities(ctx, planner.ActivityQuery{
					City:     state.Destination,
					Category: "all",
					MaxPrice: state.Budget,
				})
				return applyResults(state, activities, err, "activity search",
					func(s *planner.TripState, r []planner.ActivityOption, st planner.ResultStatus) {
						s.ActivityOptions = r
						s.ActivityStatus = st
					})
			},
		},
	}
}

// applyResults translates a collaborator call outcome into the result field
// write and status tag, mirroring the behavior of the graph search nodes.
func applyResults[T any](state planner.TripState, results []T, err error, domain string,
	apply func(*planner.TripState, []T, planner.ResultStatus)) planner.TripState {

	switch {
	case err != nil:
		state.Errors = append(state.Errors, fmt.Sprintf("%s error: %v", domain, err))
		apply(&state, nil, planner.StatusFailed)
	case len(results) == 0:
		apply(&state, nil, planner.StatusEmpty)
	default:
		apply(&state, results, planner.StatusPopulated)
	}
	return state
}
