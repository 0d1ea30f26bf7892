package planner

import "github.com/smallnest/tripgraph/graph"

// Node names of the trip-planning workflow.
const (
	NodeClassifyIntent    = "classify_intent"
	NodeDispatchSearches  = "dispatch_searches"
	NodeSearchFlights     = "search_flights"
	NodeSearchHotels      = "search_hotels"
	NodeCheckWeather      = "check_weather"
	NodeSearchActivities  = "search_activities"
	NodeCollectResults    = "collect_results"
	NodeGenerateItinerary = "generate_itinerary"
	NodeGenerateResponse  = "generate_response"
)

// RouteAfterIntent decides where to go once classification has run.
// General intent, or a classification that could not establish anything to
// search for, goes straight to the response generator; everything else
// enters the search fan-out. Pure function, exported for tests.
func RouteAfterIntent(s TripState) string {
	if s.Intent == IntentGeneral {
		return NodeGenerateResponse
	}
	// Classifier edge case: a plan intent with nothing to search for.
	// Prefer the cheap, always-safe path.
	if !s.RequiresFlights && !s.RequiresHotels && !s.RequiresWeather && !s.RequiresActivities {
		return NodeGenerateResponse
	}
	return NodeDispatchSearches
}

// RouteAfterSearches decides between the two terminal generators once all
// launched searches have completed. Single-purpose intents get a short
// response; a full plan is synthesized only when there is something
// substantive (flights or hotels) to build it from.
func RouteAfterSearches(s TripState) string {
	if s.Intent.SinglePurpose() {
		return NodeGenerateResponse
	}
	if s.Intent == IntentPlanTrip {
		if len(s.FlightOptions) > 0 || len(s.HotelOptions) > 0 {
			return NodeGenerateItinerary
		}
	}
	return NodeGenerateResponse
}

// RouteAfterItinerary ends the run when synthesis produced an itinerary,
// and degrades to the response generator when it did not.
func RouteAfterItinerary(s TripState) string {
	if s.Itinerary != "" {
		return graph.END
	}
	return NodeGenerateResponse
}
