package tools

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/smallnest/tripgraph/planner"
)

var hotelNames = []string{
	"Grand Palace Hotel",
	"Seaside Resort & Spa",
	"City Center Inn",
	"Historic Boutique Hotel",
	"Modern Plaza Hotel",
	"Luxury Towers",
	"Cozy Garden Hotel",
}

var neighborhoods = []string{
	"City Center",
	"Old Town",
	"Business District",
	"Waterfront",
	"Historic Quarter",
}

var amenitiesPool = []string{
	"Free WiFi",
	"Swimming Pool",
	"Fitness Center",
	"Spa",
	"Restaurant",
	"Bar",
	"Room Service",
	"Airport Shuttle",
}

// HotelService is a mock hotel search backend.
type HotelService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ planner.HotelSearcher = (*HotelService)(nil)

// NewHotelService returns a mock hotel searcher seeded for reproducibility.
func NewHotelService(seed int64) *HotelService {
	return &HotelService{rng: rand.New(rand.NewSource(seed))}
}

// SearchHotels generates up to five mock hotels in the given city.
func (s *HotelService) SearchHotels(_ context.Context, q planner.HotelQuery) ([]planner.HotelOption, error) {
	if q.City == "" {
		return nil, fmt.Errorf("hotel search requires a city")
	}

	nights := stayNights(q.CheckIn, q.CheckOut)
	minStars := q.MinStars
	if minStars < 1 {
		minStars = 3
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hotels := make([]planner.HotelOption, 0, 5)
	for i := 0; i < 5; i++ {
		rating := float64(minStars) + s.rng.Float64()*float64(5-minStars)
		perNight := 60 + rating*40 + float64(s.rng.Intn(60))
		if q.MaxPricePerNight > 0 && perNight > q.MaxPricePerNight {
			perNight = q.MaxPricePerNight - s.rng.Float64()*20
			if perNight <= 0 {
				continue
			}
		}

		amenityCount := 3 + s.rng.Intn(4)
		amenities := make([]string, 0, amenityCount)
		for _, idx := range s.rng.Perm(len(amenitiesPool))[:amenityCount] {
			amenities = append(amenities, amenitiesPool[idx])
		}

		hotels = append(hotels, planner.HotelOption{
			ID:               fmt.Sprintf("HT%04d", 1000+s.rng.Intn(9000)),
			Name:             hotelNames[s.rng.Intn(len(hotelNames))],
			Location:         fmt.Sprintf("%s, %s", neighborhoods[s.rng.Intn(len(neighborhoods))], q.City),
			Rating:           float64(int(rating*10)) / 10,
			PricePerNight:    float64(int(perNight*100)) / 100,
			TotalPrice:       float64(int(perNight*float64(nights)*100)) / 100,
			Amenities:        amenities,
			DistanceToCenter: float64(s.rng.Intn(80)) / 10,
		})
	}

	return hotels, nil
}

// stayNights derives the stay length from the check-in/out dates,
// defaulting to one night when they are absent or malformed.
func stayNights(checkIn, checkOut string) int {
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}
