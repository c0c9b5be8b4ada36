// Package metrics provides Prometheus metrics for the simcity broker
// connection layer: connection lifecycle counters, a readiness gauge, and
// publish counters. Metrics are registered automatically via promauto and
// recorded by the mqtt package; callers that want to expose them serve
// promhttp.Handler() themselves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectsTotal counts successful broker handshakes per broker address.
	ConnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simcity_mqtt_connects_total",
			Help: "Total successful MQTT broker connections",
		},
		[]string{"broker"},
	)

	// DisconnectsTotal counts connection drops per broker address, both
	// clean disconnects and transport-detected losses.
	DisconnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simcity_mqtt_disconnects_total",
			Help: "Total MQTT broker disconnections",
		},
		[]string{"broker", "reason"},
	)

	// Connected reflects the readiness flag per broker address (1 or 0).
	Connected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "simcity_mqtt_connected",
			Help: "Whether the MQTT connection is currently ready (1) or not (0)",
		},
		[]string{"broker"},
	)

	// PublishesTotal counts publish attempts per QoS level and outcome.
	PublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simcity_mqtt_publishes_total",
			Help: "Total MQTT publish attempts",
		},
		[]string{"qos", "outcome"},
	)
)

// Publish outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Disconnect reason label values.
const (
	ReasonClean = "clean"
	ReasonLost  = "lost"
)
