// Package planner implements the intent-driven trip-planning workflow: a
// typed TripState threaded through an acyclic graph of nodes, where a
// free-text query is classified into structured parameters, routed in code
// to the required searches, and synthesized into an itinerary or a short
// response.
package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/tripgraph/graph"
	"github.com/smallnest/tripgraph/log"
)

// DefaultCallTimeout bounds each model and collaborator call. A timeout is
// a value-level failure (an Errors entry), never a process-level abort.
const DefaultCallTimeout = 30 * time.Second

// ErrNoSessionStore is returned by Resume when no session store is configured.
var ErrNoSessionStore = errors.New("no session store configured")

// SessionStore persists TripState between runs, keyed by an opaque session
// ID. The session package provides memory, sqlite, redis and postgres
// implementations.
type SessionStore interface {
	Save(ctx context.Context, id string, state TripState) error
	Load(ctx context.Context, id string) (TripState, error)
}

// Overrides lets a caller pre-seed trip parameters. The classifier only
// overwrites them when it extracts an explicit value from the query.
type Overrides struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	NumPassengers int
	Budget        float64
	Preferences   map[string]any
}

// Planner owns the compiled workflow graph and its collaborators.
type Planner struct {
	model       llms.Model
	collab      Collaborators
	sessions    SessionStore
	callTimeout time.Duration
	now         func() time.Time

	runnable *graph.StateRunnable[TripState]
}

// Option configures a Planner.
type Option func(*Planner)

// WithSessionStore enables Resume by persisting final states.
func WithSessionStore(store SessionStore) Option {
	return func(p *Planner) { p.sessions = store }
}

// WithCallTimeout overrides the per-call timeout for model and search calls.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Planner) { p.callTimeout = d }
}

// WithClock injects the time source used to resolve relative dates in
// prompts. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// New builds the workflow graph and returns a ready Planner. It returns an
// error only for construction bugs (missing collaborators); runtime
// failures never surface here.
func New(model llms.Model, collab Collaborators, opts ...Option) (*Planner, error) {
	if model == nil {
		return nil, errors.New("planner: model is required")
	}
	if collab.Flights == nil || collab.Hotels == nil || collab.Weather == nil || collab.Activities == nil {
		return nil, errors.New("planner: all four collaborators are required")
	}

	p := &Planner{
		model:       model,
		collab:      collab,
		callTimeout: DefaultCallTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	runnable, err := p.buildGraph()
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	p.runnable = runnable

	return p, nil
}

// buildGraph wires the fixed node graph:
//
//	classify_intent -?-> dispatch_searches | generate_response
//	dispatch_searches --> the four searches (one concurrent superstep)
//	the four searches --> collect_results
//	collect_results -?-> generate_itinerary | generate_response
//	generate_itinerary -?-> END | generate_response (degraded path)
//	generate_response --> END
func (p *Planner) buildGraph() (*graph.StateRunnable[TripState], error) {
	return p.defineGraph().Compile()
}

func (p *Planner) defineGraph() *graph.StateGraph[TripState] {
	g := graph.NewStateGraph[TripState]()

	identity := func(ctx context.Context, s TripState) (TripState, error) { return s, nil }

	g.AddNode(NodeClassifyIntent, "Classify intent and extract trip parameters", p.classifyIntent)
	g.AddNode(NodeDispatchSearches, "Fan out to the required searches", dispatchSearches)
	g.AddNode(NodeSearchFlights, "Search flights", p.searchFlights)
	g.AddNode(NodeSearchHotels, "Search hotels", p.searchHotels)
	g.AddNode(NodeCheckWeather, "Check the weather forecast", p.checkWeather)
	g.AddNode(NodeSearchActivities, "Search activities", p.searchActivities)
	g.AddNode(NodeCollectResults, "Join the search fan-out", identity)
	g.AddNode(NodeGenerateItinerary, "Synthesize the itinerary", p.generateItinerary)
	g.AddNode(NodeGenerateResponse, "Generate the final response", p.generateResponse)

	g.SetEntryPoint(NodeClassifyIntent)

	g.AddConditionalEdge(NodeClassifyIntent, func(_ context.Context, s TripState) string {
		return RouteAfterIntent(s)
	})

	for _, node := range []string{NodeSearchFlights, NodeSearchHotels, NodeCheckWeather, NodeSearchActivities} {
		g.AddEdge(NodeDispatchSearches, node)
		g.AddEdge(node, NodeCollectResults)
	}

	g.AddConditionalEdge(NodeCollectResults, func(_ context.Context, s TripState) string {
		return RouteAfterSearches(s)
	})
	g.AddConditionalEdge(NodeGenerateItinerary, func(_ context.Context, s TripState) string {
		return RouteAfterItinerary(s)
	})
	g.AddEdge(NodeGenerateResponse, graph.END)

	g.SetStateMerger(mergeTripStates)

	return g
}

// dispatchSearches is the fan-out point. The search nodes receive this
// state by value and append to CompletedSteps and Errors concurrently;
// clipping the slices here forces each node's first append to reallocate,
// so siblings can never write into a shared backing array, no matter what
// capacity earlier nodes left behind.
func dispatchSearches(_ context.Context, s TripState) (TripState, error) {
	s.CompletedSteps = slices.Clip(s.CompletedSteps)
	s.Errors = slices.Clip(s.Errors)
	return s, nil
}

// Run executes the workflow for one query and returns the final state.
// It never returns an error for runtime conditions; a non-nil error means
// a construction bug in the graph itself.
func (p *Planner) Run(ctx context.Context, query string, overrides *Overrides) (TripState, error) {
	state := NewTripState(query)
	state.SessionID = uuid.NewString()
	applyOverrides(&state, overrides)

	log.Info("running trip workflow, session=%s", state.SessionID)

	final, err := p.runnable.Invoke(ctx, state)
	if err != nil {
		return final, err
	}

	p.saveSession(ctx, final)
	return final, nil
}

// Resume loads a prior session, keeps its trip parameters as defaults, and
// re-enters the workflow with the new query. Results and outputs from the
// prior run are cleared; only parameters carry over.
func (p *Planner) Resume(ctx context.Context, sessionID, newQuery string) (TripState, error) {
	if p.sessions == nil {
		return TripState{}, ErrNoSessionStore
	}

	prior, err := p.sessions.Load(ctx, sessionID)
	if err != nil {
		return TripState{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	state := NewTripState(newQuery)
	state.SessionID = sessionID
	state.Origin = prior.Origin
	state.Destination = prior.Destination
	state.DepartureDate = prior.DepartureDate
	state.ReturnDate = prior.ReturnDate
	state.NumPassengers = prior.NumPassengers
	state.Budget = prior.Budget
	for k, v := range prior.Preferences {
		state.Preferences[k] = v
	}

	log.Info("resuming trip workflow, session=%s", sessionID)

	final, err := p.runnable.Invoke(ctx, state)
	if err != nil {
		return final, err
	}

	p.saveSession(ctx, final)
	return final, nil
}

// Mermaid renders the workflow graph for documentation and debugging.
func (p *Planner) Mermaid() string {
	return graph.NewExporter(p.defineGraph()).DrawMermaid()
}

func applyOverrides(state *TripState, o *Overrides) {
	if o == nil {
		return
	}
	if o.Origin != "" {
		state.Origin = o.Origin
	}
	if o.Destination != "" {
		state.Destination = o.Destination
	}
	if o.DepartureDate != "" {
		state.DepartureDate = o.DepartureDate
	}
	if o.ReturnDate != "" {
		state.ReturnDate = o.ReturnDate
	}
	if o.NumPassengers >= 1 {
		state.NumPassengers = o.NumPassengers
	}
	if o.Budget > 0 {
		state.Budget = o.Budget
	}
	for k, v := range o.Preferences {
		state.Preferences[k] = v
	}
}

func (p *Planner) saveSession(ctx context.Context, state TripState) {
	if p.sessions == nil {
		return
	}
	if err := p.sessions.Save(ctx, state.SessionID, state); err != nil {
		log.Warn("failed to save session %s: %v", state.SessionID, err)
	}
}

// callContext bounds a single external call with the configured timeout.
func (p *Planner) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.callTimeout)
}

// mergeTripStates merges the states produced by one superstep. The single
// parallel superstep is the search fan-out, whose nodes write disjoint
// result fields and only append to CompletedSteps and Errors, so the merge
// is order-independent.
func mergeTripStates(_ context.Context, current TripState, updates []TripState) (TripState, error) {
	if len(updates) == 0 {
		return current, nil
	}
	if len(updates) == 1 {
		return updates[0], nil
	}

	merged := current
	for _, u := range updates {
		if u.FlightStatus != current.FlightStatus {
			merged.FlightStatus = u.FlightStatus
			merged.FlightOptions = u.FlightOptions
		}
		if u.HotelStatus != current.HotelStatus {
			merged.HotelStatus = u.HotelStatus
			merged.HotelOptions = u.HotelOptions
		}
		if u.WeatherStatus != current.WeatherStatus {
			merged.WeatherStatus = u.WeatherStatus
			merged.WeatherForecast = u.WeatherForecast
		}
		if u.ActivityStatus != current.ActivityStatus {
			merged.ActivityStatus = u.ActivityStatus
			merged.ActivityOptions = u.ActivityOptions
		}
		merged.CompletedSteps = append(merged.CompletedSteps, u.CompletedSteps[len(current.CompletedSteps):]...)
		merged.Errors = append(merged.Errors, u.Errors[len(current.Errors):]...)
	}

	return merged, nil
}
