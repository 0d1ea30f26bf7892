package tools

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/smallnest/tripgraph/planner"
)

var airlines = []string{
	"Turkish Airlines",
	"Lufthansa",
	"British Airways",
	"Air France",
	"Pegasus",
}

var cabinBasePrices = map[string]float64{
	"economy":  150,
	"business": 450,
	"first":    900,
}

// FlightService is a mock flight search backend.
type FlightService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ planner.FlightSearcher = (*FlightService)(nil)

// NewFlightService returns a mock flight searcher seeded for reproducibility.
func NewFlightService(seed int64) *FlightService {
	return &FlightService{rng: rand.New(rand.NewSource(seed))}
}

// SearchFlights generates three mock flights between the given cities,
// sorted by total price.
func (s *FlightService) SearchFlights(_ context.Context, q planner.FlightQuery) ([]planner.FlightOption, error) {
	if q.Origin == "" || q.Destination == "" || q.DepartureDate == "" {
		return nil, fmt.Errorf("flight search requires origin, destination and departure date")
	}

	passengers := q.Passengers
	if passengers < 1 {
		passengers = 1
	}
	cabin := q.CabinClass
	if cabin == "" {
		cabin = "economy"
	}
	basePrice, ok := cabinBasePrices[cabin]
	if !ok {
		basePrice = cabinBasePrices["economy"]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flights := make([]planner.FlightOption, 0, 3)
	for i := 0; i < 3; i++ {
		price := basePrice + float64(s.rng.Intn(151)-50)
		total := price * float64(passengers)
		if q.ReturnDate != "" {
			total *= 2
		}

		flights = append(flights, planner.FlightOption{
			ID:             fmt.Sprintf("FL%04d", 1000+s.rng.Intn(9000)),
			Airline:        airlines[s.rng.Intn(len(airlines))],
			Origin:         cityCode(q.Origin),
			Destination:    cityCode(q.Destination),
			DepartureDate:  q.DepartureDate,
			DepartureTime:  fmt.Sprintf("%02d:%02d", 6+s.rng.Intn(17), 15*s.rng.Intn(4)),
			Duration:       fmt.Sprintf("%dh %dm", 2+s.rng.Intn(7), 15*s.rng.Intn(4)),
			Stops:          []int{0, 0, 0, 1}[s.rng.Intn(4)],
			CabinClass:     cabin,
			PricePerPerson: price,
			TotalPrice:     total,
			SeatsAvailable: 5 + s.rng.Intn(46),
		})
	}

	sort.Slice(flights, func(i, j int) bool {
		return flights[i].TotalPrice < flights[j].TotalPrice
	})

	return flights, nil
}

// cityCode reduces a city name to a 3-letter airport-style code.
func cityCode(city string) string {
	c := strings.ToUpper(strings.TrimSpace(city))
	if len(c) > 3 {
		c = c[:3]
	}
	return c
}
