package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OfferbookMetrics holds all Prometheus metrics for the offerbook module
type OfferbookMetrics struct {
	// Gatekeeping
	GateRejections       *prometheus.CounterVec
	ReentrancyRejections *prometheus.CounterVec
	StrayLocksReleased   prometheus.Counter

	// External calls
	TransferFailures *prometheus.CounterVec
	MonitorFailures  *prometheus.CounterVec
	OracleHints      *prometheus.CounterVec

	// Offers
	OffersWritten   *prometheus.CounterVec
	OffersRetracted *prometheus.CounterVec
	MarketOrders    *prometheus.CounterVec

	// Governance
	ConfigUpdates *prometheus.CounterVec
	ActivePairs   prometheus.Gauge
}

var (
	offerbookMetricsOnce sync.Once
	offerbookMetrics     *OfferbookMetrics
)

// NewOfferbookMetrics creates and registers offerbook metrics (singleton pattern)
func NewOfferbookMetrics() *OfferbookMetrics {
	offerbookMetricsOnce.Do(func() {
		offerbookMetrics = &OfferbookMetrics{
			GateRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "gate_rejections_total",
					Help:      "Operations refused by the dead, active or lock checks",
				},
				[]string{"op", "reason"},
			),
			ReentrancyRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "reentrancy_rejections_total",
					Help:      "Attempts to enter a pair that was already locked",
				},
				[]string{"outbound", "inbound"},
			),
			StrayLocksReleased: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "stray_locks_released_total",
					Help:      "Pair locks found set at end of block and released",
				},
			),
			TransferFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "transfer_failures_total",
					Help:      "Token transfers that reverted, panicked or returned false",
				},
				[]string{"op", "status"},
			),
			MonitorFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "monitor_failures_total",
					Help:      "Monitor calls that failed and were ignored",
				},
				[]string{"call", "status"},
			),
			OracleHints: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "oracle_hints_total",
					Help:      "Monitor hints by field and whether they were applied",
				},
				[]string{"field", "result"},
			),
			OffersWritten: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "offers_written_total",
					Help:      "Offers created or updated",
				},
				[]string{"outbound", "inbound", "kind"},
			),
			OffersRetracted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "offers_retracted_total",
					Help:      "Offers retracted or deprovisioned",
				},
				[]string{"outbound", "inbound", "deprovision"},
			),
			MarketOrders: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "market_orders_total",
					Help:      "Market orders entered, by outcome",
				},
				[]string{"outbound", "inbound", "status"},
			),
			ConfigUpdates: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "config_updates_total",
					Help:      "Governance updates of the global or local config",
				},
				[]string{"scope", "field"},
			),
			ActivePairs: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "mangrove",
					Subsystem: "offerbook",
					Name:      "active_pairs",
					Help:      "Number of pairs currently active",
				},
			),
		}
	})
	return offerbookMetrics
}
