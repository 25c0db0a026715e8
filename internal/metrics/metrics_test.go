package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observations(t *testing.T) {
	m := NewRecorder()

	m.ObserveAggregation(651, 2)
	m.ObserveReport(65, 623, 651)
	m.ObserveOutcome("success")
	m.ObserveOutcome("success")
	m.ObserveFetch(150 * time.Millisecond)

	assert.Equal(t, 651.0, testutil.ToFloat64(m.RecordsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsSkipped))
	assert.Equal(t, 65.0, testutil.ToFloat64(m.Communities))
	assert.Equal(t, 623.0, testutil.ToFloat64(m.Functional))
	assert.Equal(t, 28.0, testutil.ToFloat64(m.Broken))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FetchDuration))
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.ObserveOutcome("download_failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Runs.WithLabelValues("download_failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Runs.WithLabelValues("download_failed")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	m := NewRecorder()
	m.ObserveAggregation(5, 0)
	m.ObserveOutcome("success")

	path := filepath.Join(t.TempDir(), "wpstat.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "wpstat_records_total 5")
	assert.Contains(t, out, `wpstat_runs_total{outcome="success"} 1`)
	assert.Contains(t, out, "# HELP wpstat_communities")
}
