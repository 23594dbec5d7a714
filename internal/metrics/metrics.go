package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	executions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coderoom",
		Name:      "executions_total",
		Help:      "Code executions dispatched, by result kind",
	}, []string{"result"})

	executionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coderoom",
		Name:      "execution_duration_seconds",
		Help:      "Wall-clock duration of code executions",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})

	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coderoom",
		Name:      "websocket_connections",
		Help:      "Currently open websocket connections",
	})

	roomJoins = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coderoom",
		Name:      "room_joins_total",
		Help:      "Room join events processed",
	})
)

func ObserveExecution(result string, d time.Duration) {
	executions.WithLabelValues(result).Inc()
	executionDuration.WithLabelValues(result).Observe(d.Seconds())
}

func ConnectionOpened() { activeConnections.Inc() }
func ConnectionClosed() { activeConnections.Dec() }
func RoomJoined()       { roomJoins.Inc() }

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
