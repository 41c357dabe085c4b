package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations, storage failures and checkout handoffs.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	storage   *prometheus.CounterVec
	checkouts *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	storage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_storage_failures_total",
		Help: "Cart persistence failures by direction.",
	}, []string{"direction"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_handoffs_total",
		Help: "Checkout handoffs by provider and outcome.",
	}, []string{"provider", "outcome"})
	reg.MustRegister(mutations, storage, checkouts)
	return &CartMetrics{
		mutations: mutations,
		storage:   storage,
		checkouts: checkouts,
	}
}

// IncMutation counts one cart mutation.
func (c *CartMetrics) IncMutation(op, outcome string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// IncStorageFailure counts a failed read or write.
func (c *CartMetrics) IncStorageFailure(direction string) {
	if c == nil || c.storage == nil {
		return
	}
	c.storage.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncCheckout counts a checkout handoff attempt.
func (c *CartMetrics) IncCheckout(provider, outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(provider), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
