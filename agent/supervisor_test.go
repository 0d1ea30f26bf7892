package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/tripgraph/planner"
	"github.com/smallnest/tripgraph/tools"
)

// scriptedRouter returns one pre-planned route decision per call.
type scriptedRouter struct {
	routes []string
	calls  int
	err    error
}

func (m *scriptedRouter) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	route := "FINISH"
	if m.calls < len(m.routes) {
		route = m.routes[m.calls]
	}
	m.calls++
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				FunctionCall: &llms.FunctionCall{
					Name:      "route",
					Arguments: fmt.Sprintf(`{"next": %q}`, route),
				},
			}},
		}},
	}, nil
}

func (m *scriptedRouter) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func testCollaborators() planner.Collaborators {
	return planner.Collaborators{
		Flights:    tools.NewFlightService(1),
		Hotels:     tools.NewHotelService(2),
		Weather:    tools.NewWeatherService(3),
		Activities: tools.NewActivityService(4),
	}
}

func TestSupervisorDelegatesAndFinishes(t *testing.T) {
	model := &scriptedRouter{routes: []string{"flight_specialist", "weather_specialist", "FINISH"}}

	sup, err := New(model, DefaultSpecialists(testCollaborators()))
	require.NoError(t, err)

	state := planner.NewTripState("flights from London to Paris next week")
	state.Origin = "London"
	state.Destination = "Paris"
	state.DepartureDate = "2026-09-10"

	result, err := sup.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, planner.StatusPopulated, result.FlightStatus)
	assert.NotEmpty(t, result.FlightOptions)
	assert.Equal(t, planner.StatusPopulated, result.WeatherStatus)
	assert.NotEmpty(t, result.WeatherForecast)
	// Specialists that were never routed to stay untouched.
	assert.Equal(t, planner.StatusNotRequested, result.HotelStatus)
	assert.Equal(t, planner.StatusNotRequested, result.ActivityStatus)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, model.calls)
}

func TestSupervisorIterationBound(t *testing.T) {
	// A router that never says FINISH must be cut off.
	model := &scriptedRouter{routes: []string{
		"hotel_specialist", "hotel_specialist", "hotel_specialist", "hotel_specialist",
		"hotel_specialist", "hotel_specialist", "hotel_specialist", "hotel_specialist",
	}}

	sup, err := New(model, DefaultSpecialists(testCollaborators()), WithMaxIterations(3))
	require.NoError(t, err)

	state := planner.NewTripState("hotels in Rome")
	state.Destination = "Rome"

	result, err := sup.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, 3, model.calls)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[len(result.Errors)-1], "without FINISH")
}

func TestSupervisorRoutingErrorIsRecorded(t *testing.T) {
	model := &scriptedRouter{err: errors.New("rate limited")}

	sup, err := New(model, DefaultSpecialists(testCollaborators()))
	require.NoError(t, err)

	result, err := sup.Run(context.Background(), planner.NewTripState("plan a trip"))
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "supervisor routing error")
	assert.Contains(t, result.Errors[0], "rate limited")
}

func TestSupervisorUnknownSpecialist(t *testing.T) {
	model := &scriptedRouter{routes: []string{"booking_specialist"}}

	sup, err := New(model, DefaultSpecialists(testCollaborators()))
	require.NoError(t, err)

	result, err := sup.Run(context.Background(), planner.NewTripState("plan a trip"))
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unknown specialist")
}

func TestSpecialistMissingParameters(t *testing.T) {
	specialists := DefaultSpecialists(testCollaborators())

	var flight Specialist
	for _, sp := range specialists {
		if sp.Name == "flight_specialist" {
			flight = sp
		}
	}
	require.NotNil(t, flight.Run)

	state := flight.Run(context.Background(), planner.NewTripState("flights"))
	assert.Equal(t, planner.StatusFailed, state.FlightStatus)
	require.NotEmpty(t, state.Errors)
	assert.Contains(t, state.Errors[0], "missing required parameters")
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, DefaultSpecialists(testCollaborators()))
	assert.Error(t, err)

	_, err = New(&scriptedRouter{}, nil)
	assert.Error(t, err)

	dup := []Specialist{
		{Name: "a", Run: func(_ context.Context, s planner.TripState) planner.TripState { return s }},
		{Name: "a", Run: func(_ context.Context, s planner.TripState) planner.TripState { return s }},
	}
	_, err = New(&scriptedRouter{}, dup)
	assert.Error(t, err)
}
