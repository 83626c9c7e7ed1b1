package travel

import (
	"math"

	"pantrypilot/internal/models"
)

// Per-mode travel speeds in km/h for the static model.
const (
	walkSpeedKmh  = 4.5
	bikeSpeedKmh  = 15.0
	trainSpeedKmh = 35.0

	// trainAccessMinutes covers walking to the platform and waiting.
	trainAccessMinutes = 12

	// elevationPerKm approximates elevation gain for short local journeys
	// where no elevation data is available.
	elevationPerKm = 8.0
)

// trainFare returns the flat fare for a journey of the given distance.
// Walk and bike journeys are free.
func trainFare(distanceKm float64) float64 {
	switch {
	case distanceKm <= 3:
		return 2.20
	case distanceKm <= 10:
		return 3.50
	default:
		return 5.00
	}
}

// safetyRating returns the fixed per-mode safety rating, 1-5.
func safetyRating(mode models.TravelMode) int {
	switch mode {
	case models.ModeWalk:
		return 5
	case models.ModeTrain:
		return 4
	default:
		return 3
	}
}

// StaticModel produces route estimates from geometry alone: great-circle
// distance, a per-mode speed, and a flat elevation approximation. It is both
// the default estimator and the fallback when the external provider fails.
type StaticModel struct{}

// NewStaticModel creates the static route model.
func NewStaticModel() *StaticModel {
	return &StaticModel{}
}

// Route estimates a journey between two points for the given mode.
func (m *StaticModel) Route(origin, dest models.Coordinates, mode models.TravelMode) *models.RouteEstimate {
	distance := haversineKm(origin, dest)

	speed := walkSpeedKmh
	access := 0.0
	cost := 0.0
	switch mode {
	case models.ModeBike:
		speed = bikeSpeedKmh
	case models.ModeTrain:
		speed = trainSpeedKmh
		access = trainAccessMinutes
		cost = trainFare(distance)
	}

	duration := int(math.Round(distance/speed*60 + access))
	elevation := distance * elevationPerKm

	return &models.RouteEstimate{
		Mode:               mode,
		DistanceKm:         round2(distance),
		Duration:           duration,
		ElevationGain:      round2(elevation),
		Difficulty:         difficultyFor(distance, elevation, mode),
		WeatherSuitability: 1.0,
		SafetyRating:       safetyRating(mode),
		Cost:               cost,
	}
}

// Forecast returns the fallback forecast: mild and dry. Used when the
// weather provider is unavailable.
func (m *StaticModel) Forecast() *models.Forecast {
	return &models.Forecast{TempC: 12, Raining: false, WindKph: 10, Summary: "no live data"}
}

func difficultyFor(distanceKm, elevation float64, mode models.TravelMode) string {
	effort := distanceKm
	if mode == models.ModeWalk {
		effort *= 2
	}
	effort += elevation / 50
	switch {
	case effort < 3:
		return "easy"
	case effort < 8:
		return "moderate"
	default:
		return "hard"
	}
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(a, b models.Coordinates) float64 {
	const earthRadiusKm = 6371.0
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
