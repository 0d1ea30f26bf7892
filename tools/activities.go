package tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/smallnest/tripgraph/planner"
)

// activityDB maps lowercase city names to curated activities. Cities not
// listed fall back to a generic set.
var activityDB = map[string][]planner.ActivityOption{
	"istanbul": {
		{Name: "Bosphorus Sunset Cruise", Category: "tours", Description: "Scenic cruise along the Bosphorus with views of Istanbul's skyline", DurationHours: 2, Price: 45, Rating: 4.8},
		{Name: "Hagia Sophia Guided Tour", Category: "culture", Description: "Guided visit of the Hagia Sophia and its mosaics", DurationHours: 1.5, Price: 30, Rating: 4.7},
		{Name: "Grand Bazaar Food Walk", Category: "food", Description: "Tasting walk through the Grand Bazaar and spice market", DurationHours: 3, Price: 55, Rating: 4.6},
	},
	"paris": {
		{Name: "Louvre Skip-the-Line Tour", Category: "museums", Description: "Guided highlights tour of the Louvre", DurationHours: 2.5, Price: 65, Rating: 4.7},
		{Name: "Seine River Dinner Cruise", Category: "food", Description: "Evening cruise with a three-course dinner", DurationHours: 2, Price: 95, Rating: 4.5},
		{Name: "Montmartre Walking Tour", Category: "culture", Description: "Walk through Montmartre's artist quarter", DurationHours: 2, Price: 25, Rating: 4.6},
	},
	"london": {
		{Name: "Tower of London Tour", Category: "culture", Description: "Beefeater-led tour including the Crown Jewels", DurationHours: 2, Price: 40, Rating: 4.6},
		{Name: "British Museum Highlights", Category: "museums", Description: "Guided tour of the British Museum's main galleries", DurationHours: 2, Price: 35, Rating: 4.7},
		{Name: "West End Theatre Night", Category: "entertainment", Description: "Evening show in London's theatre district", DurationHours: 3, Price: 80, Rating: 4.8},
	},
	"tokyo": {
		{Name: "Tsukiji Outer Market Food Tour", Category: "food", Description: "Street-food tasting around the old fish market", DurationHours: 3, Price: 70, Rating: 4.8},
		{Name: "TeamLab Digital Art Museum", Category: "museums", Description: "Immersive digital art exhibition", DurationHours: 2, Price: 30, Rating: 4.7},
		{Name: "Asakusa Temple Walk", Category: "culture", Description: "Guided walk around Senso-ji and Nakamise street", DurationHours: 1.5, Price: 20, Rating: 4.5},
	},
}

var genericActivities = []planner.ActivityOption{
	{Name: "Old Town Walking Tour", Category: "tours", Description: "Guided walk through the historic center", DurationHours: 2, Price: 25, Rating: 4.4},
	{Name: "Local Food Tasting", Category: "food", Description: "Sample regional dishes with a local guide", DurationHours: 2.5, Price: 50, Rating: 4.5},
	{Name: "City Museum Visit", Category: "museums", Description: "Entry to the main city museum", DurationHours: 2, Price: 18, Rating: 4.3},
	{Name: "Day Trip to the Countryside", Category: "adventure", Description: "Full-day excursion outside the city", DurationHours: 8, Price: 110, Rating: 4.6},
}

// ActivityService is a mock activity search backend.
type ActivityService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ planner.ActivitySearcher = (*ActivityService)(nil)

// NewActivityService returns a mock activity searcher seeded for reproducibility.
func NewActivityService(seed int64) *ActivityService {
	return &ActivityService{rng: rand.New(rand.NewSource(seed))}
}

// SearchActivities returns the curated activities for the city, filtered by
// category and price.
func (s *ActivityService) SearchActivities(_ context.Context, q planner.ActivityQuery) ([]planner.ActivityOption, error) {
	if q.City == "" {
		return nil, fmt.Errorf("activity search requires a city")
	}

	pool, ok := activityDB[strings.ToLower(strings.TrimSpace(q.City))]
	if !ok {
		pool = genericActivities
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]planner.ActivityOption, 0, len(pool))
	for i, a := range pool {
		if q.Category != "" && q.Category != "all" && a.Category != q.Category {
			continue
		}
		if q.MaxPrice > 0 && a.Price > q.MaxPrice {
			continue
		}
		a.ID = fmt.Sprintf("AC%04d", 1000+s.rng.Intn(9000)+i)
		results = append(results, a)
	}

	return results, nil
}
