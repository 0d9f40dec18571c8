package metrics

import (
	"energy-telemetry-pipeline/src/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "energy_pipeline"

// IngestMetrics holds the counters kept for ingestion invocations. They live on
// a private registry so a push only carries this process's series.
type IngestMetrics struct {
	Registry      *prometheus.Registry
	Records       prometheus.Counter
	Anomalies     prometheus.Counter
	Notifications prometheus.Counter
	Batches       *prometheus.CounterVec
}

func NewIngestMetrics() *IngestMetrics {
	m := &IngestMetrics{
		Registry: prometheus.NewRegistry(),
		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Total number of raw records processed.",
		}),
		Anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "anomalies_total",
			Help:      "Total number of records flagged as anomalies.",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "notifications_total",
			Help:      "Total number of anomaly notifications published.",
		}),
		Batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batches_total",
			Help:      "Total number of batch files by final status.",
		}, []string{"status"}), // status: succeeded, failed
	}

	m.Registry.MustRegister(m.Records, m.Anomalies, m.Notifications, m.Batches)
	return m
}

// Observe records one finished batch, successful or not.
func (m *IngestMetrics) Observe(outcome types.IngestionOutcome) {
	m.Records.Add(float64(outcome.Processed))
	m.Anomalies.Add(float64(outcome.Anomalies))
	m.Notifications.Add(float64(outcome.Notified))

	status := "failed"
	if outcome.Succeeded() {
		status = "succeeded"
	}
	m.Batches.WithLabelValues(status).Inc()
}

// Pusher sends the registry to a Prometheus push gateway. Lambda processes are
// too short-lived to be scraped.
type Pusher struct {
	pusher *push.Pusher
}

func NewPusher(url, job string, registry *prometheus.Registry) *Pusher {
	return &Pusher{pusher: push.New(url, job).Gatherer(registry)}
}

func (p *Pusher) Push() error {
	return p.pusher.Add()
}
