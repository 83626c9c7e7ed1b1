package models

// TravelMode represents how a journey is made
type TravelMode string

const (
	// Travel modes
	ModeWalk  TravelMode = "walk"
	ModeBike  TravelMode = "bike"
	ModeTrain TravelMode = "train"
)

// ValidMode reports whether s names a known travel mode.
func ValidMode(s string) bool {
	switch TravelMode(s) {
	case ModeWalk, ModeBike, ModeTrain:
		return true
	}
	return false
}

// Coordinates represents a latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteEstimate represents a mode-specific journey estimate. Callers cannot
// tell whether an estimate came from the cache, a live provider call or the
// static fallback model; availability is traded for precision.
type RouteEstimate struct {
	Mode               TravelMode `json:"mode"`
	DistanceKm         float64    `json:"distance_km"`
	Duration           int        `json:"duration"` // minutes
	ElevationGain      float64    `json:"elevation_gain"`
	Difficulty         string     `json:"difficulty"`
	WeatherSuitability float64    `json:"weather_suitability"` // 0-1
	SafetyRating       int        `json:"safety_rating"`       // 1-5
	Cost               float64    `json:"cost"`
}

// Forecast represents the day's weather conditions at a location
type Forecast struct {
	TempC   float64 `json:"temp_c"`
	Raining bool    `json:"raining"`
	WindKph float64 `json:"wind_kph"`
	Summary string  `json:"summary,omitempty"`
}

// TravelConditions represents everything that can stretch a journey beyond
// its base duration
type TravelConditions struct {
	Raining           bool    `json:"raining"`
	StrongWind        bool    `json:"strong_wind"`
	TempC             float64 `json:"temp_c"`
	Energy            float64 `json:"energy"` // traveler energy, 0-1
	RushHour          bool    `json:"rush_hour"`
	CarryingEquipment bool    `json:"carrying_equipment"`
}
