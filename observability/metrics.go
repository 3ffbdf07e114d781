package observability

import (
	"math"
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"relaychain/core/events"
)

// RelayMetrics aggregates the ledger-level Prometheus series exported by the
// daemon. Series are registered once on first use.
type RelayMetrics struct {
	sends       *prometheus.CounterVec
	feesTotal   prometheus.Counter
	claims      *prometheus.CounterVec
	claimedBase *prometheus.CounterVec
	delegations *prometheus.CounterVec
	paused      prometheus.Gauge
}

var (
	relayMetricsOnce sync.Once
	relayRegistry    *RelayMetrics
)

// Metrics returns the lazily-initialised relay metrics registry.
func Metrics() *RelayMetrics {
	relayMetricsOnce.Do(func() {
		relayRegistry = &RelayMetrics{
			sends: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "relay",
				Subsystem: "ledger",
				Name:      "sends_total",
				Help:      "Messages recorded, segmented by tier and fee outcome.",
			}, []string{"tier", "outcome"}),
			feesTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "relay",
				Subsystem: "ledger",
				Name:      "fees_collected_base_units",
				Help:      "Cumulative fees collected into the pool, in base units.",
			}),
			claims: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "relay",
				Subsystem: "ledger",
				Name:      "claims_total",
				Help:      "Pool withdrawals, segmented by claim kind.",
			}, []string{"kind"}),
			claimedBase: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "relay",
				Subsystem: "ledger",
				Name:      "claimed_base_units",
				Help:      "Amounts paid out of the pool, in base units, by claim kind.",
			}, []string{"kind"}),
			delegations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "relay",
				Subsystem: "ledger",
				Name:      "delegation_changes_total",
				Help:      "Delegation registry changes, segmented by action.",
			}, []string{"action"}),
			paused: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "relay",
				Subsystem: "ledger",
				Name:      "paused",
				Help:      "1 while sends and claims are suspended, 0 otherwise.",
			}),
		}
		prometheus.MustRegister(
			relayRegistry.sends,
			relayRegistry.feesTotal,
			relayRegistry.claims,
			relayRegistry.claimedBase,
			relayRegistry.delegations,
			relayRegistry.paused,
		)
	})
	return relayRegistry
}

// Emitter returns an events.Emitter that records ledger events into the
// registry. It is composed with the node's event tail at startup.
func (m *RelayMetrics) Emitter() events.Emitter { return metricsEmitter{metrics: m} }

type metricsEmitter struct {
	metrics *RelayMetrics
}

func (me metricsEmitter) Emit(evt events.Event) {
	m := me.metrics
	switch e := evt.(type) {
	case events.MessageSent:
		tier := "standard"
		if e.Priority {
			tier = "priority"
		}
		outcome := "unpaid"
		if e.FeePaid {
			outcome = "paid"
			m.feesTotal.Add(amountFloat(e.Fee))
		}
		m.sends.WithLabelValues(tier, outcome).Inc()
	case events.RecipientClaimed:
		m.claims.WithLabelValues("recipient").Inc()
		m.claimedBase.WithLabelValues("recipient").Add(amountFloat(e.Amount))
	case events.OwnerClaimed:
		m.claims.WithLabelValues("owner").Inc()
		m.claimedBase.WithLabelValues("owner").Add(amountFloat(e.Amount))
	case events.ExpiredSharesClaimed:
		m.claims.WithLabelValues("expired").Inc()
		m.claimedBase.WithLabelValues("expired").Add(amountFloat(e.Amount))
	case events.DelegationSet:
		m.delegations.WithLabelValues("set").Inc()
	case events.DelegationCleared:
		m.delegations.WithLabelValues("cleared").Inc()
	case events.DelegationRejected:
		m.delegations.WithLabelValues("rejected").Inc()
	case events.Paused:
		m.paused.Set(1)
	case events.Unpaused:
		m.paused.Set(0)
	}
}

// amountFloat converts a base-unit amount for counter accumulation. Values
// beyond float64 precision saturate rather than panic.
func amountFloat(amount *big.Int) float64 {
	if amount == nil || amount.Sign() <= 0 {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount).Float64()
	if math.IsInf(f, 1) {
		return math.MaxFloat64
	}
	return f
}
