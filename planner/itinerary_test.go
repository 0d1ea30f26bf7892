package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCostFigure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{
			name: "plain figure",
			text: "Total estimated cost: $2500",
			want: 2500,
			ok:   true,
		},
		{
			name: "thousands separator and cents",
			text: "Your total comes to $2,512.50 for two people.",
			want: 2512.50,
			ok:   true,
		},
		{
			name: "case insensitive",
			text: "TOTAL BUDGET: $980",
			want: 980,
			ok:   true,
		},
		{
			name: "no total keyword",
			text: "The flight costs $400.",
			ok:   false,
		},
		{
			name: "no figure",
			text: "Total cost depends on the season.",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCostFigure(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEstimateTotalCost(t *testing.T) {
	s := NewTripState("q")
	s.NumPassengers = 2
	s.FlightOptions = []FlightOption{
		{PricePerPerson: 300, TotalPrice: 600},
		{PricePerPerson: 200, TotalPrice: 400}, // cheapest wins
	}
	s.HotelOptions = []HotelOption{
		{Rating: 4.0, TotalPrice: 500},
		{Rating: 4.8, TotalPrice: 800}, // best rated wins
	}

	assert.Equal(t, 200.0*2+800, estimateTotalCost(s))

	s.FlightOptions = nil
	assert.Equal(t, 800.0, estimateTotalCost(s))

	s.HotelOptions = nil
	assert.Zero(t, estimateTotalCost(s))
}

func TestBuildRecommendations(t *testing.T) {
	s := NewTripState("q")
	s.Budget = 3000
	s.TotalCost = 2200
	s.WeatherForecast = []WeatherDay{
		{TempHighC: 30}, {TempHighC: 32}, {TempHighC: 29},
	}

	recs := buildRecommendations(s)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "$800.00 remaining")
	assert.Contains(t, recs[1], "light, breathable clothing")

	s.TotalCost = 3500
	recs = buildRecommendations(s)
	assert.Contains(t, recs[0], "exceed budget by $500.00")

	s.Budget = 0
	s.WeatherForecast = []WeatherDay{{TempHighC: 5}, {TempHighC: 7}}
	recs = buildRecommendations(s)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "warm clothing")
}

func TestGenerateItinerarySetsOutputs(t *testing.T) {
	model := &fakeModel{
		itinerary: "# Day 1\nExplore.\n\nTotal trip cost: $1,234.56",
	}
	p := stubPlanner(t, Collaborators{})
	p.model = model

	state := NewTripState("plan")
	state.NumPassengers = 1
	state.FlightOptions = []FlightOption{{PricePerPerson: 200}}
	state.HotelOptions = []HotelOption{{Rating: 4.5, TotalPrice: 500}}

	out, err := p.generateItinerary(context.Background(), state)
	require.NoError(t, err)

	assert.Contains(t, out.Itinerary, "# Day 1")
	// The model-stated figure overrides the estimate (200 + 500).
	assert.Equal(t, 1234.56, out.TotalCost)
	assert.Contains(t, out.CompletedSteps, StepItineraryGeneration)
}

func TestGenerateItineraryUsesEstimateWithoutFigure(t *testing.T) {
	model := &fakeModel{itinerary: "# Day 1\nExplore the old town."}
	p := stubPlanner(t, Collaborators{})
	p.model = model

	state := NewTripState("plan")
	state.NumPassengers = 2
	state.FlightOptions = []FlightOption{{PricePerPerson: 250}}
	state.HotelOptions = []HotelOption{{Rating: 4.0, TotalPrice: 600}}

	out, err := p.generateItinerary(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 250.0*2+600, out.TotalCost)
}
