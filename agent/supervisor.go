// Package agent provides a supervisor-style variant of the planner. Instead
// of a precompiled conditional graph, a single routing call asks the model
// which specialist should act next; the specialist itself is an ordinary Go
// function over the shared TripState. The graph workflow in planner remains
// the primary entry point; this variant exists for conversational flows
// where the set of needed specialists is not known up front.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/tripgraph/log"
	"github.com/smallnest/tripgraph/planner"
)

const finishRoute = "FINISH"

// DefaultMaxIterations bounds the routing loop so a model that never says
// FINISH cannot spin forever.
const DefaultMaxIterations = 8

// Specialist is one worker the supervisor can delegate to. Run receives the
// state by value and returns the updated copy.
type Specialist struct {
	Name        string
	Description string
	Run         func(ctx context.Context, state planner.TripState) planner.TripState
}

// Supervisor routes a trip request across a set of specialists, one
// model-selected step at a time.
type Supervisor struct {
	model         llms.Model
	specialists   []Specialist
	byName        map[string]Specialist
	maxIterations int
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithMaxIterations overrides the routing loop bound.
func WithMaxIterations(n int) Option {
	return func(s *Supervisor) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// New builds a supervisor over the given specialists.
func New(model llms.Model, specialists []Specialist, opts ...Option) (*Supervisor, error) {
	if model == nil {
		return nil, fmt.Errorf("agent: model is required")
	}
	if len(specialists) == 0 {
		return nil, fmt.Errorf("agent: at least one specialist is required")
	}

	s := &Supervisor{
		model:         model,
		specialists:   specialists,
		byName:        make(map[string]Specialist, len(specialists)),
		maxIterations: DefaultMaxIterations,
	}
	for _, sp := range specialists {
		if sp.Name == "" || sp.Run == nil {
			return nil, fmt.Errorf("agent: specialist must have a name and a run function")
		}
		if _, dup := s.byName[sp.Name]; dup {
			return nil, fmt.Errorf("agent: duplicate specialist %q", sp.Name)
		}
		s.byName[sp.Name] = sp
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run drives the routing loop until the model selects FINISH or the
// iteration bound is reached. Routing failures are recorded in the state's
// Errors and terminate the loop; they are not fatal.
func (s *Supervisor) Run(ctx context.Context, state planner.TripState) (planner.TripState, error) {
	for i := 0; i < s.maxIterations; i++ {
		next, err := s.route(ctx, state)
		if err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("supervisor routing error: %v", err))
			return state, nil
		}
		if next == finishRoute {
			return state, nil
		}

		sp, ok := s.byName[next]
		if !ok {
			state.Errors = append(state.Errors, fmt.Sprintf("supervisor selected unknown specialist %q", next))
			return state, nil
		}

		log.Debug("supervisor delegating to %s", sp.Name)
		state = sp.Run(ctx, state)
	}

	state.Errors = append(state.Errors,
		fmt.Sprintf("supervisor stopped after %d iterations without FINISH", s.maxIterations))
	return state, nil
}

// route makes one forced tool-choice call and returns the selected member
// name or FINISH.
func (s *Supervisor) route(ctx context.Context, state planner.TripState) (string, error) {
	names := make([]string, 0, len(s.specialists))
	var descriptions []string
	for _, sp := range s.specialists {
		names = append(names, sp.Name)
		descriptions = append(descriptions, fmt.Sprintf("- %s: %s", sp.Name, sp.Description))
	}
	options := append(append([]string{}, names...), finishRoute)

	routeTool := llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "route",
			Description: "Select the next specialist to act, or FINISH.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"next": map[string]any{
						"type": "string",
						"enum": options,
					},
				},
				"required": []string{"next"},
			},
		},
	}

	systemPrompt := fmt.Sprintf(
		"You are a supervisor coordinating travel-planning specialists:\n%s\n"+
			"Given the trip request and the progress so far, select the specialist "+
			"to act next. Do not select a specialist whose work is already done. "+
			"When nothing useful remains, respond with FINISH. You MUST use the "+
			"'route' tool; do not reply with plain text.",
		strings.Join(descriptions, "\n"),
	)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, describeProgress(state)),
	}

	resp, err := s.model.GenerateContent(ctx, messages,
		llms.WithTools([]llms.Tool{routeTool}),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: "route"},
		}),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return "", fmt.Errorf("model did not call the route tool")
	}

	var args struct {
		Next string `json:"next"`
	}
	tc := resp.Choices[0].ToolCalls[0]
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		return "", fmt.Errorf("parse route arguments: %w", err)
	}
	return args.Next, nil
}

// describeProgress summarizes the request and which domains already hold
// results, so the router can tell remaining work from finished work.
func describeProgress(state planner.TripState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip request: %s\n", state.UserQuery)
	if state.Destination != "" {
		fmt.Fprintf(&b, "Destination: %s\n", state.Destination)
	}
	if state.Origin != "" {
		fmt.Fprintf(&b, "Origin: %s\n", state.Origin)
	}
	if state.DepartureDate != "" {
		fmt.Fprintf(&b, "Dates: %s to %s\n", state.DepartureDate, state.ReturnDate)
	}

	b.WriteString("Progress:\n")
	fmt.Fprintf(&b, "- flights: %s (%d options)\n", state.FlightStatus, len(state.FlightOptions))
	fmt.Fprintf(&b, "- hotels: %s (%d options)\n", state.HotelStatus, len(state.HotelOptions))
	fmt.Fprintf(&b, "- weather: %s (%d days)\n", state.WeatherStatus, len(state.WeatherForecast))
	fmt.Fprintf(&b, "- activities: %s (%d options)\n", state.ActivityStatus, len(state.ActivityOptions))
	if len(state.Errors) > 0 {
		fmt.Fprintf(&b, "Errors so far: %s\n", strings.Join(state.Errors, "; "))
	}
	return b.String()
}
