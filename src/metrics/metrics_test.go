package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"energy-telemetry-pipeline/src/types"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsOutcome(t *testing.T) {
	m := NewIngestMetrics()

	m.Observe(types.IngestionOutcome{Processed: 10, Anomalies: 2, Notified: 2, Status: types.BatchSucceeded})
	m.Observe(types.IngestionOutcome{Processed: 3, Status: types.BatchFailed})

	assert.Equal(t, 13.0, testutil.ToFloat64(m.Records))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Anomalies))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Batches.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Batches.WithLabelValues("failed")))
}

func TestPusherPostsToGateway(t *testing.T) {
	var path string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer gateway.Close()

	m := NewIngestMetrics()
	m.Observe(types.IngestionOutcome{Processed: 1, Status: types.BatchSucceeded})

	err := NewPusher(gateway.URL, "energy_ingest", m.Registry).Push()

	require.NoError(t, err)
	assert.Equal(t, "/metrics/job/energy_ingest", path)
}
