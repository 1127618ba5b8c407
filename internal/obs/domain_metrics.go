package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics holds the business collectors of the pricing and matching
// endpoints. A nil *DomainMetrics records nothing.
type DomainMetrics struct {
	PricingCalculations *prometheus.CounterVec
	MatchOutcomes       *prometheus.CounterVec
	MatchBatchSize      prometheus.Histogram
	MatchCacheLookups   *prometheus.CounterVec
}

// NewDomainMetrics initialises and registers domain-specific Prometheus collectors.
func NewDomainMetrics(namespace string, reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &DomainMetrics{
		PricingCalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_calculations_total",
			Help:      "Count of price calculations by whether a discount applied.",
		}, []string{"result"}),
		MatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_results_total",
			Help:      "Count of attribute match decisions by item type and outcome.",
		}, []string{"item_type", "outcome"}),
		MatchBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_batch_size",
			Help:      "Number of products per match request.",
			Buckets:   []float64{1, 5, 10, 50, 100, 250, 500, 1000, 5000},
		}),
		MatchCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_cache_lookups_total",
			Help:      "Match result cache lookups by result.",
		}, []string{"result"}),
	}
	m.PricingCalculations = register(reg, m.PricingCalculations)
	m.MatchOutcomes = register(reg, m.MatchOutcomes)
	m.MatchBatchSize = register(reg, m.MatchBatchSize)
	m.MatchCacheLookups = register(reg, m.MatchCacheLookups)
	return m
}

// ObservePricing counts one calculation.
func (m *DomainMetrics) ObservePricing(discounted bool) {
	if m == nil {
		return
	}
	result := "full_price"
	if discounted {
		result = "discounted"
	}
	m.PricingCalculations.WithLabelValues(result).Inc()
}

// ObserveMatch counts one attribute decision. Outcome is matched, create or skipped.
func (m *DomainMetrics) ObserveMatch(itemType, outcome string) {
	if m == nil {
		return
	}
	m.MatchOutcomes.WithLabelValues(itemType, outcome).Inc()
}

// ObserveBatch records the size of a match request.
func (m *DomainMetrics) ObserveBatch(size int) {
	if m == nil {
		return
	}
	m.MatchBatchSize.Observe(float64(size))
}

// ObserveCache counts a cache lookup; result is hit, miss, error or bypass.
func (m *DomainMetrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.MatchCacheLookups.WithLabelValues(result).Inc()
}
