package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/smallnest/tripgraph/planner"
)

var weatherConditions = []string{
	"Clear sky",
	"Partly cloudy",
	"Cloudy",
	"Light rain",
	"Rain",
	"Thunderstorm",
	"Sunny",
}

// WeatherService is a mock forecast backend.
type WeatherService struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

var _ planner.WeatherProvider = (*WeatherService)(nil)

// NewWeatherService returns a mock forecast provider seeded for reproducibility.
func NewWeatherService(seed int64) *WeatherService {
	return &WeatherService{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Forecast generates a per-day forecast for the requested range, capped at
// 14 days. Missing dates default to a 7-day forecast from today.
func (s *WeatherService) Forecast(_ context.Context, q planner.WeatherQuery) ([]planner.WeatherDay, error) {
	if q.City == "" {
		return nil, fmt.Errorf("weather forecast requires a city")
	}

	start := s.now()
	if q.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", q.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", q.StartDate, err)
		}
		start = parsed
	}

	days := 7
	if q.EndDate != "" {
		if end, err := time.Parse("2006-01-02", q.EndDate); err == nil {
			span := int(end.Sub(start).Hours()/24) + 1
			if span >= 1 {
				days = span
			}
		}
	}
	if days > 14 {
		days = 14
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	forecast := make([]planner.WeatherDay, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		base := float64(10 + s.rng.Intn(16))
		high := base + float64(3+s.rng.Intn(6))
		low := base - float64(2+s.rng.Intn(4))
		condition := weatherConditions[s.rng.Intn(len(weatherConditions))]

		var recs []string
		if strings.Contains(strings.ToLower(condition), "rain") ||
			strings.Contains(strings.ToLower(condition), "storm") {
			recs = append(recs, "Bring an umbrella")
		}
		if high > 27 {
			recs = append(recs, "Stay hydrated")
		}

		forecast = append(forecast, planner.WeatherDay{
			Date:                date.Format("2006-01-02"),
			DayName:             date.Weekday().String(),
			Condition:           condition,
			TempHighC:           high,
			TempLowC:            low,
			PrecipitationChance: float64(s.rng.Intn(101)),
			Recommendations:     recs,
		})
	}

	return forecast, nil
}
