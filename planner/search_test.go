package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub collaborators with programmable outcomes.
type stubFlights struct {
	results []FlightOption
	err     error
	got     FlightQuery
}

func (s *stubFlights) SearchFlights(_ context.Context, q FlightQuery) ([]FlightOption, error) {
	s.got = q
	return s.results, s.err
}

type stubHotels struct {
	results []HotelOption
	err     error
}

func (s *stubHotels) SearchHotels(_ context.Context, _ HotelQuery) ([]HotelOption, error) {
	return s.results, s.err
}

type stubWeather struct {
	results []WeatherDay
	err     error
}

func (s *stubWeather) Forecast(_ context.Context, _ WeatherQuery) ([]WeatherDay, error) {
	return s.results, s.err
}

type stubActivities struct {
	results []ActivityOption
	err     error
}

func (s *stubActivities) SearchActivities(_ context.Context, _ ActivityQuery) ([]ActivityOption, error) {
	return s.results, s.err
}

func stubPlanner(t *testing.T, collab Collaborators) *Planner {
	t.Helper()
	if collab.Flights == nil {
		collab.Flights = &stubFlights{}
	}
	if collab.Hotels == nil {
		collab.Hotels = &stubHotels{}
	}
	if collab.Weather == nil {
		collab.Weather = &stubWeather{}
	}
	if collab.Activities == nil {
		collab.Activities = &stubActivities{}
	}
	p, err := New(&fakeModel{}, collab)
	require.NoError(t, err)
	return p
}

func TestSearchFlightsSkippedWhenNotRequired(t *testing.T) {
	flights := &stubFlights{results: []FlightOption{{ID: "FL1"}}}
	p := stubPlanner(t, Collaborators{Flights: flights})

	state := NewTripState("q")
	state.RequiresFlights = false

	out, err := p.searchFlights(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, StatusNotRequested, out.FlightStatus)
	assert.Empty(t, out.FlightOptions)
	assert.Equal(t, []string{StepFlightSearchSkipped}, out.CompletedSteps)
	assert.Empty(t, out.Errors)
	// The collaborator was never consulted.
	assert.Zero(t, flights.got)
}

func TestSearchFlightsMissingParameters(t *testing.T) {
	p := stubPlanner(t, Collaborators{})

	state := NewTripState("q")
	state.RequiresFlights = true
	state.Destination = "Istanbul"

	out, err := p.searchFlights(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, out.FlightStatus)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "flight search: missing required parameters: origin, departure_date", out.Errors[0])
	assert.Equal(t, []string{StepFlightSearch}, out.CompletedSteps)
}

func TestSearchFlightsCollaboratorError(t *testing.T) {
	p := stubPlanner(t, Collaborators{Flights: &stubFlights{err: errors.New("boom")}})

	state := NewTripState("q")
	state.RequiresFlights = true
	state.Origin = "London"
	state.Destination = "Istanbul"
	state.DepartureDate = "2026-05-10"

	out, err := p.searchFlights(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, out.FlightStatus)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "flight search error: boom")
}

func TestSearchFlightsEmptyAndPopulated(t *testing.T) {
	state := NewTripState("q")
	state.RequiresFlights = true
	state.Origin = "London"
	state.Destination = "Istanbul"
	state.DepartureDate = "2026-05-10"

	p := stubPlanner(t, Collaborators{Flights: &stubFlights{}})
	out, err := p.searchFlights(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, out.FlightStatus)
	assert.Empty(t, out.Errors)

	p = stubPlanner(t, Collaborators{Flights: &stubFlights{results: []FlightOption{{ID: "FL1"}}}})
	out, err = p.searchFlights(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, StatusPopulated, out.FlightStatus)
	assert.Len(t, out.FlightOptions, 1)
}

func TestSearchFlightsQueryBuiltFromState(t *testing.T) {
	flights := &stubFlights{results: []FlightOption{{ID: "FL1"}}}
	p := stubPlanner(t, Collaborators{Flights: flights})

	state := NewTripState("q")
	state.RequiresFlights = true
	state.Origin = "London"
	state.Destination = "Istanbul"
	state.DepartureDate = "2026-05-10"
	state.ReturnDate = "2026-05-15"
	state.NumPassengers = 2
	state.Budget = 3000
	state.Preferences["cabin_class"] = "business"

	_, err := p.searchFlights(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, FlightQuery{
		Origin:        "London",
		Destination:   "Istanbul",
		DepartureDate: "2026-05-10",
		ReturnDate:    "2026-05-15",
		Passengers:    2,
		CabinClass:    "business",
		MaxPrice:      3000,
	}, flights.got)
}

func TestDestinationOnlySearchesRequireDestination(t *testing.T) {
	p := stubPlanner(t, Collaborators{})

	state := NewTripState("q")
	state.RequiresHotels = true
	state.RequiresWeather = true
	state.RequiresActivities = true

	out, err := p.searchHotels(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.HotelStatus)
	assert.Contains(t, out.Errors[0], "hotel search: missing required parameters: destination")

	out, err = p.checkWeather(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.WeatherStatus)

	out, err = p.searchActivities(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.ActivityStatus)
}

func TestPreferenceHelpers(t *testing.T) {
	s := NewTripState("q")
	assert.Equal(t, "economy", s.cabinClass())
	assert.Equal(t, 3, s.hotelMinStars())
	assert.Equal(t, "all", s.activityCategory())

	s.Preferences["cabin_class"] = "first"
	// JSON-decoded numbers arrive as float64.
	s.Preferences["hotel_rating"] = 4.0
	s.Preferences["activity_category"] = "museums"

	assert.Equal(t, "first", s.cabinClass())
	assert.Equal(t, 4, s.hotelMinStars())
	assert.Equal(t, "museums", s.activityCategory())
}
