package travel

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"pantrypilot/internal/models"
)

// Adjustment multipliers applied to a base duration. Each condition
// contributes at most once.
const (
	rainFactor      = 1.30
	windFactor      = 1.20
	coldFactor      = 1.10
	lowEnergyFactor = 1.40
	midEnergyFactor = 1.20
	rushHourFactor  = 1.15
	equipmentFactor = 1.10

	coldThresholdC = 3.0
	lowEnergyLevel = 0.3
	midEnergyLevel = 0.6
	strongWindKph  = 30.0
)

// CacheMetrics receives cache hit/miss notifications. Nil is allowed.
type CacheMetrics interface {
	RecordTravelCache(hit bool)
}

// Estimator produces route and weather estimates. Results are cached with a
// bounded TTL, and any external failure falls back to the static model
// transparently: callers cannot tell cached, live and fallback results
// apart.
type Estimator struct {
	static   *StaticModel
	provider Provider
	cache    Cache
	metrics  CacheMetrics
}

// NewEstimator creates an estimator. provider may be nil, in which case the
// static model serves every request. cache must not be nil.
func NewEstimator(provider Provider, cache Cache) *Estimator {
	return &Estimator{
		static:   NewStaticModel(),
		provider: provider,
		cache:    cache,
	}
}

// WithMetrics attaches a cache metrics recorder.
func (e *Estimator) WithMetrics(m CacheMetrics) *Estimator {
	e.metrics = m
	return e
}

// Route returns the estimate for a journey. The cache is consulted before
// any external call; provider failures degrade to the static model and are
// never surfaced to the caller.
func (e *Estimator) Route(ctx context.Context, origin, dest models.Coordinates, mode models.TravelMode) *models.RouteEstimate {
	key := routeKey(origin, dest, mode)
	if cached, ok := e.cache.Get(key); ok {
		e.recordCache(true)
		if estimate, ok := cached.(*models.RouteEstimate); ok {
			return estimate
		}
	}
	e.recordCache(false)

	estimate := e.liveRoute(ctx, origin, dest, mode)
	e.cache.Set(key, estimate)
	return estimate
}

func (e *Estimator) liveRoute(ctx context.Context, origin, dest models.Coordinates, mode models.TravelMode) *models.RouteEstimate {
	if e.provider == nil {
		return e.static.Route(origin, dest, mode)
	}
	estimate, err := e.provider.Route(ctx, origin, dest, mode)
	if err != nil {
		log.Printf("routing provider failed, using static model: %v", err)
		return e.static.Route(origin, dest, mode)
	}
	return estimate
}

// Forecast returns the day's weather for a location, cached per
// (location, day). Provider failures degrade to a mild, dry default.
func (e *Estimator) Forecast(ctx context.Context, location models.Coordinates, day time.Time) *models.Forecast {
	key := forecastKey(location, day)
	if cached, ok := e.cache.Get(key); ok {
		e.recordCache(true)
		if forecast, ok := cached.(*models.Forecast); ok {
			return forecast
		}
	}
	e.recordCache(false)

	var forecast *models.Forecast
	if e.provider == nil {
		forecast = e.static.Forecast()
	} else {
		live, err := e.provider.Forecast(ctx, location, day)
		if err != nil {
			log.Printf("weather provider failed, using static forecast: %v", err)
			forecast = e.static.Forecast()
		} else {
			forecast = live
		}
	}
	e.cache.Set(key, forecast)
	return forecast
}

// Adjust scales a route's duration for the given conditions. Multipliers are
// multiplicative and each condition applies at most once; the result is the
// rounded product.
func Adjust(estimate *models.RouteEstimate, conditions models.TravelConditions) *models.RouteEstimate {
	factor := 1.0
	suitability := estimate.WeatherSuitability
	if suitability == 0 {
		suitability = 1.0
	}

	if conditions.Raining {
		factor *= rainFactor
		suitability = math.Min(suitability, 0.5)
	}
	if conditions.StrongWind {
		factor *= windFactor
		suitability = math.Min(suitability, 0.7)
	}
	if conditions.TempC < coldThresholdC {
		factor *= coldFactor
	}
	if conditions.Energy > 0 {
		switch {
		case conditions.Energy < lowEnergyLevel:
			factor *= lowEnergyFactor
		case conditions.Energy < midEnergyLevel:
			factor *= midEnergyFactor
		}
	}
	if conditions.RushHour {
		factor *= rushHourFactor
	}
	if conditions.CarryingEquipment {
		factor *= equipmentFactor
	}

	adjusted := *estimate
	adjusted.Duration = int(math.Round(float64(estimate.Duration) * factor))
	adjusted.WeatherSuitability = suitability
	return &adjusted
}

// ConditionsFrom derives travel conditions from a forecast plus the
// traveler's own state.
func ConditionsFrom(forecast *models.Forecast, energy float64, rushHour, equipment bool) models.TravelConditions {
	return models.TravelConditions{
		Raining:           forecast.Raining,
		StrongWind:        forecast.WindKph >= strongWindKph,
		TempC:             forecast.TempC,
		Energy:            energy,
		RushHour:          rushHour,
		CarryingEquipment: equipment,
	}
}

func (e *Estimator) recordCache(hit bool) {
	if e.metrics != nil {
		e.metrics.RecordTravelCache(hit)
	}
}

func routeKey(origin, dest models.Coordinates, mode models.TravelMode) string {
	return fmt.Sprintf("route|%.5f,%.5f|%.5f,%.5f|%s", origin.Lat, origin.Lng, dest.Lat, dest.Lng, mode)
}

func forecastKey(location models.Coordinates, day time.Time) string {
	return fmt.Sprintf("forecast|%.5f,%.5f|%s", location.Lat, location.Lng, day.Format("2006-01-02"))
}
