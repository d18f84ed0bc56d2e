package analytics

import (
	"math"
	"sort"
	"strings"

	"food-truck-api/models"
)

// RatedTruck is a truck with its review aggregate attached.
type RatedTruck struct {
	models.Truck
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"rating_count"`
	DistanceKm  *float64 `json:"distance_km,omitempty"`
}

// TruckFilter mirrors the customer dashboard's search box and category chips.
type TruckFilter struct {
	Category      string
	Search        string
	AvailableOnly bool
}

// FilterTrucks keeps trucks whose name contains Search and that serve
// Category. Both comparisons ignore case; empty values match everything.
func FilterTrucks(trucks []RatedTruck, f TruckFilter) []RatedTruck {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]RatedTruck, 0, len(trucks))
	for _, t := range trucks {
		if f.AvailableOnly && !t.Available {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name), search) {
			continue
		}
		if f.Category != "" && !ServesCuisine(t.Truck, f.Category) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ServesCuisine reports whether any of the truck's cuisines equals category.
func ServesCuisine(t models.Truck, category string) bool {
	for _, c := range t.Cuisines {
		if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(category)) {
			return true
		}
	}
	return false
}

// AverageRating returns the mean rating and the number of reviews.
func AverageRating(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10, len(reviews)
}

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm is the haversine distance between two points.
func DistanceKm(a, b GeoPoint) float64 {
	const earthRadius = 6371.0

	lat1 := a.Latitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	dLat := lat2 - lat1
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180.0

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadius keeps trucks at most radiusKm from origin, nearest first, and
// records each distance on the result.
func WithinRadius(trucks []RatedTruck, origin GeoPoint, radiusKm float64) []RatedTruck {
	out := make([]RatedTruck, 0, len(trucks))
	for _, t := range trucks {
		d := DistanceKm(origin, GeoPoint{Latitude: t.Latitude, Longitude: t.Longitude})
		if d > radiusKm {
			continue
		}
		d = math.Round(d*100) / 100
		t.DistanceKm = &d
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].DistanceKm < *out[j].DistanceKm })
	return out
}
