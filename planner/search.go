package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallnest/tripgraph/log"
)

// FlightQuery carries the parameters for a flight search.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Passengers    int
	CabinClass    string
	MaxPrice      float64
}

// HotelQuery carries the parameters for a hotel search.
type HotelQuery struct {
	City             string
	CheckIn          string
	CheckOut         string
	Guests           int
	MinStars         int
	MaxPricePerNight float64
}

// WeatherQuery carries the parameters for a forecast lookup.
type WeatherQuery struct {
	City      string
	StartDate string
	EndDate   string
}

// ActivityQuery carries the parameters for an activity search.
type ActivityQuery struct {
	City     string
	Category string
	MaxPrice float64
}

// The four collaborator interfaces. Implementations are expected to be
// synchronous and idempotent; they may return an error on validation or
// transport failure.
type (
	FlightSearcher interface {
		SearchFlights(ctx context.Context, q FlightQuery) ([]FlightOption, error)
	}

	HotelSearcher interface {
		SearchHotels(ctx context.Context, q HotelQuery) ([]HotelOption, error)
	}

	WeatherProvider interface {
		Forecast(ctx context.Context, q WeatherQuery) ([]WeatherDay, error)
	}

	ActivitySearcher interface {
		SearchActivities(ctx context.Context, q ActivityQuery) ([]ActivityOption, error)
	}
)

// Collaborators bundles the external search backends the planner calls.
type Collaborators struct {
	Flights    FlightSearcher
	Hotels     HotelSearcher
	Weather    WeatherProvider
	Activities ActivitySearcher
}

// searchSpec parameterizes the shared guarded-external-call shape of the
// four search nodes: gate on the requires flag, validate parameters, call
// the collaborator, record results or an error. Implementing the shape
// once keeps the four domains from drifting in error-handling behavior.
type searchSpec[T any] struct {
	// domain is the human-readable name used in error strings.
	domain string
	// step and skipMarker are the CompletedSteps entries.
	step       string
	skipMarker string
	// gate reads the node's requires flag.
	gate func(TripState) bool
	// missing returns the names of absent required parameters.
	missing func(TripState) []string
	// call invokes the external collaborator.
	call func(ctx context.Context, s TripState) ([]T, error)
	// apply writes the result field and its status tag.
	apply func(s *TripState, results []T, status ResultStatus)
}

// runSearch executes one guarded search node. It never returns an error;
// every failure mode becomes an Errors entry plus a Failed status so
// sibling searches and the rest of the workflow proceed unaffected.
func runSearch[T any](ctx context.Context, p *Planner, state TripState, spec searchSpec[T]) (TripState, error) {
	if !spec.gate(state) {
		state.CompletedSteps = append(state.CompletedSteps, spec.skipMarker)
		return state, nil
	}

	if missing := spec.missing(state); len(missing) > 0 {
		state.Errors = append(state.Errors,
			fmt.Sprintf("%s: missing required parameters: %s", spec.domain, strings.Join(missing, ", ")))
		spec.apply(&state, nil, StatusFailed)
		state.CompletedSteps = append(state.CompletedSteps, spec.step)
		return state, nil
	}

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	results, err := spec.call(cctx, state)
	switch {
	case err != nil:
		log.Warn("%s failed: %v", spec.domain, err)
		state.Errors = append(state.Errors, fmt.Sprintf("%s error: %v", spec.domain, err))
		spec.apply(&state, nil, StatusFailed)
	case len(results) == 0:
		spec.apply(&state, nil, StatusEmpty)
	default:
		spec.apply(&state, results, StatusPopulated)
	}

	state.CompletedSteps = append(state.CompletedSteps, spec.step)
	return state, nil
}

func (p *Planner) searchFlights(ctx context.Context, state TripState) (TripState, error) {
	return runSearch(ctx, p, state, searchSpec[FlightOption]{
		domain:     "flight search",
		step:       StepFlightSearch,
		skipMarker: StepFlightSearchSkipped,
		gate:       func(s TripState) bool { return s.RequiresFlights },
		missing: func(s TripState) []string {
			var missing []string
			if s.Origin == "" {
				missing = append(missing, "origin")
			}
			if s.Destination == "" {
				missing = append(missing, "destination")
			}
			if s.DepartureDate == "" {
				missing = append(missing, "departure_date")
			}
			return missing
		},
		call: func(ctx context.Context, s TripState) ([]FlightOption, error) {
			return p.collab.Flights.SearchFlights(ctx, FlightQuery{
				Origin:        s.Origin,
				Destination:   s.Destination,
				DepartureDate: s.DepartureDate,
				ReturnDate:    s.ReturnDate,
				Passengers:    s.NumPassengers,
				CabinClass:    s.cabinClass(),
				MaxPrice:      s.Budget,
			})
		},
		apply: func(s *TripState, results []FlightOption, status ResultStatus) {
			s.FlightOptions = results
			s.FlightStatus = status
		},
	})
}

func (p *Planner) searchHotels(ctx context.Context, state TripState) (TripState, error) {
	return runSearch(ctx, p, state, searchSpec[HotelOption]{
		domain:     "hotel search",
		step:       StepHotelSearch,
		skipMarker: StepHotelSearchSkipped,
		gate:       func(s TripState) bool { return s.RequiresHotels },
		missing: func(s TripState) []string {
			if s.Destination == "" {
				return []string{"destination"}
			}
			return nil
		},
		call: func(ctx context.Context, s TripState) ([]HotelOption, error) {
			return p.collab.Hotels.SearchHotels(ctx, HotelQuery{
				City:     s.Destination,
				CheckIn:  s.DepartureDate,
				CheckOut: s.ReturnDate,
				Guests:   s.NumPassengers,
				MinStars: s.hotelMinStars(),
			})
		},
		apply: func(s *TripState, results []HotelOption, status ResultStatus) {
			s.HotelOptions = results
			s.HotelStatus = status
		},
	})
}

func (p *Planner) checkWeather(ctx context.Context, state TripState) (TripState, error) {
	return runSearch(ctx, p, state, searchSpec[WeatherDay]{
		domain:     "weather check",
		step:       StepWeatherCheck,
		skipMarker: StepWeatherCheckSkipped,
		gate:       func(s TripState) bool { return s.RequiresWeather },
		missing: func(s TripState) []string {
			if s.Destination == "" {
				return []string{"destination"}
			}
			return nil
		},
		call: func(ctx context.Context, s TripState) ([]WeatherDay, error) {
			return p.collab.Weather.Forecast(ctx, WeatherQuery{
				City:      s.Destination,
				StartDate: s.DepartureDate,
				EndDate:   s.ReturnDate,
			})
		},
		apply: func(s *TripState, results []WeatherDay, status ResultStatus) {
			s.WeatherForecast = results
			s.WeatherStatus = status
		},
	})
}

func (p *Planner) searchActivities(ctx context.Context, state TripState) (TripState, error) {
	return runSearch(ctx, p, state, searchSpec[ActivityOption]{
		domain:     "activity search",
		step:       StepActivitySearch,
		skipMarker: StepActivitySearchSkipped,
		gate:       func(s TripState) bool { return s.RequiresActivities },
		missing: func(s TripState) []string {
			if s.Destination == "" {
				return []string{"destination"}
			}
			return nil
		},
		call: func(ctx context.Context, s TripState) ([]ActivityOption, error) {
			return p.collab.Activities.SearchActivities(ctx, ActivityQuery{
				City:     s.Destination,
				Category: s.activityCategory(),
				MaxPrice: s.Budget,
			})
		},
		apply: func(s *TripState, results []ActivityOption, status ResultStatus) {
			s.ActivityOptions = results
			s.ActivityStatus = status
		},
	})
}

// cabinClass reads the cabin_class preference, defaulting to economy.
func (s TripState) cabinClass() string {
	if v, ok := s.Preferences["cabin_class"].(string); ok && v != "" {
		return v
	}
	return "economy"
}

// hotelMinStars reads the hotel_rating preference. JSON numbers arrive as
// float64.
func (s TripState) hotelMinStars() int {
	switch v := s.Preferences["hotel_rating"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 3
}

// activityCategory reads the activity_category preference, defaulting to all.
func (s TripState) activityCategory() string {
	if v, ok := s.Preferences["activity_category"].(string); ok && v != "" {
		return v
	}
	return "all"
}
