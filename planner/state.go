package planner

// Intent is the closed category of what the user wants from a query.
type Intent string

const (
	IntentPlanTrip         Intent = "plan_trip"
	IntentSearchFlights    Intent = "search_flights"
	IntentSearchHotels     Intent = "search_hotels"
	IntentSearchActivities Intent = "search_activities"
	IntentCheckWeather     Intent = "check_weather"
	IntentGeneral          Intent = "general"
)

// Valid reports whether the intent is one of the known categories.
func (i Intent) Valid() bool {
	switch i {
	case IntentPlanTrip, IntentSearchFlights, IntentSearchHotels,
		IntentSearchActivities, IntentCheckWeather, IntentGeneral:
		return true
	}
	return false
}

// SinglePurpose reports whether the intent asks one narrow question, where
// a full itinerary would be unwanted verbosity.
func (i Intent) SinglePurpose() bool {
	switch i {
	case IntentSearchFlights, IntentSearchHotels, IntentSearchActivities, IntentCheckWeather:
		return true
	}
	return false
}

// ResultStatus tags the outcome of one search domain, so consumers don't
// have to reverse-engineer it from CompletedSteps and Errors strings.
type ResultStatus string

const (
	// StatusNotRequested means the domain's requires flag was false.
	StatusNotRequested ResultStatus = "not_requested"
	// StatusFailed means the search was requested but parameters were
	// missing or the collaborator returned an error.
	StatusFailed ResultStatus = "failed"
	// StatusEmpty means the search ran and found nothing.
	StatusEmpty ResultStatus = "empty"
	// StatusPopulated means the search ran and returned results.
	StatusPopulated ResultStatus = "populated"
)

// Step markers appended to TripState.CompletedSteps, one per node visit.
const (
	StepClassifyIntent        = "intent_classification"
	StepFlightSearch          = "flight_search"
	StepFlightSearchSkipped   = "flight_search_skipped"
	StepHotelSearch           = "hotel_search"
	StepHotelSearchSkipped    = "hotel_search_skipped"
	StepWeatherCheck          = "weather_check"
	StepWeatherCheckSkipped   = "weather_check_skipped"
	StepActivitySearch        = "activity_search"
	StepActivitySearchSkipped = "activity_search_skipped"
	StepItineraryGeneration   = "itinerary_generation"
	StepResponseGeneration    = "response_generation"
)

// FlightOption is a single flight search result.
type FlightOption struct {
	ID             string  `json:"flight_id"`
	Airline        string  `json:"airline"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureDate  string  `json:"departure_date"`
	DepartureTime  string  `json:"departure_time"`
	Duration       string  `json:"duration"`
	Stops          int     `json:"stops"`
	CabinClass     string  `json:"cabin_class"`
	PricePerPerson float64 `json:"price_per_person"`
	TotalPrice     float64 `json:"total_price"`
	SeatsAvailable int     `json:"seats_available"`
}

// HotelOption is a single hotel search result.
type HotelOption struct {
	ID               string   `json:"hotel_id"`
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	Rating           float64  `json:"rating"`
	PricePerNight    float64  `json:"price_per_night"`
	TotalPrice       float64  `json:"total_price"`
	Amenities        []string `json:"amenities"`
	DistanceToCenter float64  `json:"distance_to_center"`
}

// ActivityOption is a single activity or attraction search result.
type ActivityOption struct {
	ID            string  `json:"activity_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	DurationHours float64 `json:"duration_hours"`
	Price         float64 `json:"price"`
	Rating        float64 `json:"rating"`
}

// WeatherDay is the forecast for a single day.
type WeatherDay struct {
	Date                string   `json:"date"`
	DayName             string   `json:"day_name"`
	Condition           string   `json:"condition"`
	TempHighC           float64  `json:"temp_high_c"`
	TempLowC            float64  `json:"temp_low_c"`
	PrecipitationChance float64  `json:"precipitation_chance"`
	Recommendations     []string `json:"recommendations"`
}

// TripState is the single record threaded through the whole workflow.
// One instance is created per request; nodes receive it by value and
// return an updated copy, so partial updates never race. Nodes that run
// in the same superstep write disjoint fields and only append to
// CompletedSteps and Errors.
type TripState struct {
	// Inputs. Set from the user, then overwritten once by the intent
	// classifier with normalized values.
	UserQuery     string         `json:"user_query"`
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departure_date"`
	ReturnDate    string         `json:"return_date"`
	NumPassengers int            `json:"num_passengers"`
	Budget        float64        `json:"budget"` // 0 means unspecified; hint only, never enforced
	Preferences   map[string]any `json:"preferences"`

	// Routing flags. Written once by the intent classifier.
	Intent             Intent `json:"intent"`
	RequiresFlights    bool   `json:"requires_flights"`
	RequiresHotels     bool   `json:"requires_hotels"`
	RequiresWeather    bool   `json:"requires_weather"`
	RequiresActivities bool   `json:"requires_activities"`

	// Results. Each field is owned exclusively by its search node.
	FlightOptions   []FlightOption   `json:"flight_options"`
	HotelOptions    []HotelOption    `json:"hotel_options"`
	ActivityOptions []ActivityOption `json:"activity_options"`
	WeatherForecast []WeatherDay     `json:"weather_forecast"`

	FlightStatus   ResultStatus `json:"flight_status"`
	HotelStatus    ResultStatus `json:"hotel_status"`
	WeatherStatus  ResultStatus `json:"weather_status"`
	ActivityStatus ResultStatus `json:"activity_status"`

	// Outputs. At completion exactly one of Itinerary or Response is set.
	Itinerary       string   `json:"itinerary"`
	TotalCost       float64  `json:"total_cost"`
	Recommendations []string `json:"recommendations"`
	Response        string   `json:"response"`

	// Bookkeeping. Append-only within a run.
	SessionID      string   `json:"session_id"`
	CompletedSteps []string `json:"completed_steps"`
	Errors         []string `json:"errors"`
}

// NewTripState returns the initial state for a single request.
func NewTripState(query string) TripState {
	return TripState{
		UserQuery:      query,
		NumPassengers:  1,
		Preferences:    map[string]any{},
		Intent:         IntentGeneral,
		FlightStatus:   StatusNotRequested,
		HotelStatus:    StatusNotRequested,
		WeatherStatus:  StatusNotRequested,
		ActivityStatus: StatusNotRequested,
	}
}

// HasResults reports whether any search produced at least one record.
func (s TripState) HasResults() bool {
	return len(s.FlightOptions) > 0 || len(s.HotelOptions) > 0 ||
		len(s.ActivityOptions) > 0 || len(s.WeatherForecast) > 0
}
