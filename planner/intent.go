package planner

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/tripgraph/llm"
	"github.com/smallnest/tripgraph/log"
)

// intentPayload is the JSON shape the classifier asks the model for.
// Fields the model leaves null keep their zero value and never overwrite
// already-known parameters.
type intentPayload struct {
	Intent             string         `json:"intent"`
	Origin             string         `json:"origin"`
	Destination        string         `json:"destination"`
	DepartureDate      string         `json:"departure_date"`
	ReturnDate         string         `json:"return_date"`
	NumPassengers      int            `json:"num_passengers"`
	Budget             float64        `json:"budget"`
	RequiresFlights    bool           `json:"requires_flights"`
	RequiresHotels     bool           `json:"requires_hotels"`
	RequiresActivities bool           `json:"requires_activities"`
	RequiresWeather    bool           `json:"requires_weather"`
	Preferences        map[string]any `json:"preferences"`
}

// classifyIntent turns the free-text query into structured intent, routing
// flags and trip parameters. It never returns an error: classification
// failures degrade to IntentGeneral with all flags false, recorded in
// state.Errors.
func (p *Planner) classifyIntent(ctx context.Context, state TripState) (TripState, error) {
	if state.UserQuery == "" {
		state.Intent = IntentGeneral
		state.RequiresFlights = false
		state.RequiresHotels = false
		state.RequiresWeather = false
		state.RequiresActivities = false
		state.Errors = append(state.Errors, "no user query provided")
		state.CompletedSteps = append(state.CompletedSteps, StepClassifyIntent)
		return state, nil
	}

	prompt := buildIntentPrompt(state.UserQuery, p.now().Format("2006-01-02"))

	cctx, cancel := p.callContext(ctx)
	defer cancel()

	completion, err := llms.GenerateFromSinglePrompt(cctx, p.model, prompt)
	if err != nil {
		log.Warn("intent classification failed: %v", err)
		state.Intent = IntentGeneral
		state.Errors = append(state.Errors, fmt.Sprintf("intent classification error: %v", err))
		state.CompletedSteps = append(state.CompletedSteps, StepClassifyIntent)
		return state, nil
	}

	var payload intentPayload
	if err := llm.ExtractJSON(completion, &payload); err != nil {
		log.Warn("intent payload unparseable: %v", err)
		state.Intent = IntentGeneral
		state.Errors = append(state.Errors, fmt.Sprintf("intent classification error: %v", err))
		state.CompletedSteps = append(state.CompletedSteps, StepClassifyIntent)
		return state, nil
	}

	intent := Intent(payload.Intent)
	if !intent.Valid() {
		intent = IntentGeneral
	}
	state.Intent = intent
	state.RequiresFlights = payload.RequiresFlights
	state.RequiresHotels = payload.RequiresHotels
	state.RequiresWeather = payload.RequiresWeather
	state.RequiresActivities = payload.RequiresActivities

	// Extracted parameters overwrite the inputs with normalized values;
	// fields the model could not determine keep their previous value,
	// which carries caller overrides and resumed-session context through.
	if payload.Origin != "" {
		state.Origin = payload.Origin
	}
	if payload.Destination != "" {
		state.Destination = payload.Destination
	}
	if payload.DepartureDate != "" {
		state.DepartureDate = payload.DepartureDate
	}
	if payload.ReturnDate != "" {
		state.ReturnDate = payload.ReturnDate
	}
	if payload.NumPassengers >= 1 {
		state.NumPassengers = payload.NumPassengers
	}
	if payload.Budget > 0 {
		state.Budget = payload.Budget
	}
	for k, v := range payload.Preferences {
		if state.Preferences == nil {
			state.Preferences = map[string]any{}
		}
		state.Preferences[k] = v
	}

	log.Debug("classified intent=%s flights=%t hotels=%t weather=%t activities=%t",
		state.Intent, state.RequiresFlights, state.RequiresHotels,
		state.RequiresWeather, state.RequiresActivities)

	state.CompletedSteps = append(state.CompletedSteps, StepClassifyIntent)
	return state, nil
}
