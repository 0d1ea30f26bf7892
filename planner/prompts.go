package planner

import (
	"fmt"
	"strings"
)

const intentPromptTemplate = `You are an intent classifier for a travel planning system.

Analyze the user query and extract:
1. Intent type: plan_trip, search_flights, search_hotels, search_activities, check_weather, general
2. Travel details: origin, destination, dates, number of passengers, budget
3. Required services: which services are needed (flights, hotels, activities, weather)
4. User preferences: any specific preferences mentioned

User Query: %s
Current Date: %s

Respond ONLY with valid JSON in this exact format:
{
    "intent": "plan_trip",
    "origin": "New York" or null,
    "destination": "Paris" or null,
    "departure_date": "2024-12-20" or null,
    "return_date": "2024-12-27" or null,
    "num_passengers": 1,
    "budget": 3000.0 or null,
    "requires_flights": true,
    "requires_hotels": true,
    "requires_activities": true,
    "requires_weather": true,
    "preferences": {
        "cabin_class": "economy",
        "hotel_rating": 4,
        "activities": ["museums", "restaurants"]
    }
}

Be precise. Extract only information explicitly mentioned or strongly implied.
IMPORTANT: If the user mentions a duration (e.g., "for 3 nights"), CALCULATE the return_date based on the departure_date. Do not leave it null if it can be inferred.`

func buildIntentPrompt(query, currentDate string) string {
	return fmt.Sprintf(intentPromptTemplate, query, currentDate)
}

const itineraryPromptTemplate = `You are a professional travel planner creating a comprehensive itinerary.

Based on the following information, create a well-structured, detailed travel itinerary:

**Trip Overview:**
- Origin: %s
- Destination: %s
- Dates: %s to %s
- Passengers: %d
- Budget: %s

**Selected Flight:**
%s

**Selected Hotel:**
%s

**Weather Forecast:**
%s

**Recommended Activities:**
%s

Create a day-by-day itinerary that includes:
1. Flight details and arrival/departure times
2. Hotel check-in/check-out information
3. Daily activity suggestions with timing
4. Weather-based packing recommendations
5. Budget breakdown
6. Important tips and reminders

Format the itinerary in clear, readable markdown format.`

func buildItineraryPrompt(s TripState) string {
	budget := "Not specified"
	if s.Budget > 0 {
		budget = fmt.Sprintf("$%.2f", s.Budget)
	}

	return fmt.Sprintf(itineraryPromptTemplate,
		valueOr(s.Origin, "N/A"),
		valueOr(s.Destination, "N/A"),
		valueOr(s.DepartureDate, "N/A"),
		valueOr(s.ReturnDate, "N/A"),
		s.NumPassengers,
		budget,
		formatFlightInfo(s),
		formatHotelInfo(s),
		formatWeatherInfo(s.WeatherForecast),
		formatActivitiesInfo(s.ActivityOptions),
	)
}

const responsePromptTemplate = `You are a helpful and enthusiastic travel assistant.

Your goal is to provide a natural, conversational response to the user based on their query and the results of any actions taken.

**User Query:** %s

**Intent:** %s

**Search Results:**
%s

**Errors:**
%s

**Instructions:**
1. Answer the user's query directly.
2. If search results are available, summarize them clearly (e.g., "I found 3 flight options starting at $200..."). Do NOT list every single detail unless asked, but give enough info to be useful.
3. If there were errors (e.g., missing parameters), explain what is needed to proceed (e.g., "I need to know your destination to find hotels"). Present partial results as best-effort, with an explicit caveat about what could not be found.
4. If the intent was just "general" (e.g., "Hello"), respond politely and offer help with travel planning.
5. Be concise but warm.

**Response:**`

func buildResponsePrompt(s TripState) string {
	errorText := "No errors."
	if len(s.Errors) > 0 {
		errorText = strings.Join(s.Errors, "\n")
	}
	return fmt.Sprintf(responsePromptTemplate,
		s.UserQuery, s.Intent, formatSearchSummary(s), errorText)
}

func formatFlightInfo(s TripState) string {
	best := bestFlight(s.FlightOptions)
	if best == nil {
		return "No flight options available"
	}
	return fmt.Sprintf(`- Airline: %s
- Departure: %s %s
- Price: $%.2f (Best available option)
- Duration: %s
- Stops: %d`,
		best.Airline, best.DepartureDate, best.DepartureTime,
		best.TotalPrice, best.Duration, best.Stops)
}

func formatHotelInfo(s TripState) string {
	best := bestHotel(s.HotelOptions)
	if best == nil {
		return "No hotel options available"
	}
	return fmt.Sprintf(`- Hotel: %s
- Rating: %.1f (Best rated option)
- Price per night: $%.2f
- Total: $%.2f
- Amenities: %s`,
		best.Name, best.Rating, best.PricePerNight, best.TotalPrice,
		strings.Join(best.Amenities, ", "))
}

func formatWeatherInfo(forecast []WeatherDay) string {
	if len(forecast) == 0 {
		return "Weather forecast not available"
	}
	lines := make([]string, 0, len(forecast))
	for _, day := range forecast {
		lines = append(lines, fmt.Sprintf("- %s: %s, %.0f°C - %.0f°C, Precipitation: %.0f%%",
			day.Date, day.Condition, day.TempLowC, day.TempHighC, day.PrecipitationChance))
	}
	return strings.Join(lines, "\n")
}

func formatActivitiesInfo(activities []ActivityOption) string {
	if len(activities) == 0 {
		return "No activity recommendations available"
	}
	top := activities
	if len(top) > 5 {
		top = top[:5]
	}
	lines := make([]string, 0, len(top))
	for _, a := range top {
		lines = append(lines, fmt.Sprintf("- %s (%s): $%.2f, %.1f hours, Rating: %.1f",
			a.Name, a.Category, a.Price, a.DurationHours, a.Rating))
	}
	return strings.Join(lines, "\n")
}

func formatSearchSummary(s TripState) string {
	var parts []string

	if len(s.FlightOptions) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d flight options.", len(s.FlightOptions)))
		for i, f := range topFlights(s.FlightOptions, 3) {
			parts = append(parts, fmt.Sprintf("- Flight %d: %s to %s, $%.2f, departs %s",
				i+1, f.Airline, f.Destination, f.TotalPrice, f.DepartureTime))
		}
	}

	if len(s.HotelOptions) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d hotel options.", len(s.HotelOptions)))
		top := s.HotelOptions
		if len(top) > 3 {
			top = top[:3]
		}
		for i, h := range top {
			parts = append(parts, fmt.Sprintf("- Hotel %d: %s, %.1f stars, $%.2f/night",
				i+1, h.Name, h.Rating, h.PricePerNight))
		}
	}

	if len(s.ActivityOptions) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d activity options.", len(s.ActivityOptions)))
		top := s.ActivityOptions
		if len(top) > 3 {
			top = top[:3]
		}
		for i, a := range top {
			parts = append(parts, fmt.Sprintf("- Activity %d: %s, $%.2f", i+1, a.Name, a.Price))
		}
	}

	if len(s.WeatherForecast) > 0 {
		parts = append(parts, fmt.Sprintf("Weather forecast available for %d days.", len(s.WeatherForecast)))
		w := s.WeatherForecast[0]
		parts = append(parts, fmt.Sprintf("- %s: %s, %.0f°C - %.0f°C",
			w.Date, w.Condition, w.TempLowC, w.TempHighC))
	}

	if len(parts) == 0 {
		return "No specific search results."
	}
	return strings.Join(parts, "\n")
}

func topFlights(flights []FlightOption, n int) []FlightOption {
	if len(flights) > n {
		return flights[:n]
	}
	return flights
}

// bestFlight picks the cheapest option.
func bestFlight(flights []FlightOption) *FlightOption {
	var best *FlightOption
	for i := range flights {
		if best == nil || flights[i].TotalPrice < best.TotalPrice {
			best = &flights[i]
		}
	}
	return best
}

// bestHotel picks the highest-rated option.
func bestHotel(hotels []HotelOption) *HotelOption {
	var best *HotelOption
	for i := range hotels {
		if best == nil || hotels[i].Rating > best.Rating {
			best = &hotels[i]
		}
	}
	return best
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
