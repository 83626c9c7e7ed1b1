package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector handles metrics collection and reporting for the planning core
type Collector struct {
	registry *prometheus.Registry

	planDuration     *prometheus.HistogramVec
	planWarnings     *prometheus.CounterVec
	shoppingStores   prometheus.Histogram
	shoppingSavings  prometheus.Counter
	travelCacheHits  prometheus.Counter
	travelCacheMiss  prometheus.Counter
	expiringItems    *prometheus.GaugeVec
	inventoryActions *prometheus.CounterVec
}

// NewCollector creates a metrics collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		planDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "plan_generation_seconds",
				Help:    "Time taken to generate a weekly meal plan",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		planWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plan_warnings_total",
				Help: "Warnings attached to generated plans",
			},
			[]string{"code"},
		),
		shoppingStores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shopping_stores_per_allocation",
				Help:    "Distinct stores visited per shopping allocation",
				Buckets: prometheus.LinearBuckets(1, 1, 5),
			},
		),
		shoppingSavings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shopping_savings_total",
				Help: "Cumulative savings versus the single-store baseline",
			},
		),
		travelCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "travel_cache_hits_total",
				Help: "Travel estimate cache hits",
			},
		),
		travelCacheMiss: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "travel_cache_misses_total",
				Help: "Travel estimate cache misses",
			},
		),
		expiringItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_expiring_items",
				Help: "Items currently inside the expiry alert window",
			},
			[]string{"urgency"},
		),
		inventoryActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_actions_total",
				Help: "Inventory operations by type",
			},
			[]string{"action"},
		),
	}

	c.registry.MustRegister(
		c.planDuration,
		c.planWarnings,
		c.shoppingStores,
		c.shoppingSavings,
		c.travelCacheHits,
		c.travelCacheMiss,
		c.expiringItems,
		c.inventoryActions,
	)
	return c
}

// Registry returns the collector's prometheus registry for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordPlanGeneration records a plan generation attempt.
func (c *Collector) RecordPlanGeneration(duration time.Duration, outcome string) {
	c.planDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordPlanWarning counts a warning by code.
func (c *Collector) RecordPlanWarning(code string) {
	c.planWarnings.WithLabelValues(code).Inc()
}

// RecordShoppingAllocation records the store count of an allocation.
func (c *Collector) RecordShoppingAllocation(storeCount int) {
	c.shoppingStores.Observe(float64(storeCount))
}

// RecordShoppingSavings accumulates savings versus the baseline.
func (c *Collector) RecordShoppingSavings(amount float64) {
	if amount > 0 {
		c.shoppingSavings.Add(amount)
	}
}

// RecordTravelCache counts a cache hit or miss.
func (c *Collector) RecordTravelCache(hit bool) {
	if hit {
		c.travelCacheHits.Inc()
	} else {
		c.travelCacheMiss.Inc()
	}
}

// RecordExpiringItems sets the gauge for one urgency band.
func (c *Collector) RecordExpiringItems(urgency string, count int) {
	c.expiringItems.WithLabelValues(urgency).Set(float64(count))
}

// RecordInventoryAction counts an inventory operation.
func (c *Collector) RecordInventoryAction(action string) {
	c.inventoryActions.WithLabelValues(action).Inc()
}
