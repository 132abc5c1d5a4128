package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()

	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %q not found", name)

	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestMetrics_RecordsRequestsAndScans(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("POST", "/api/v1/admin/scan/action/", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)
	m.IncQRIssued()
	m.IncQRIssued()
	m.IncScan("action", OutcomeExpired)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	requests := findFamily(t, mfs, "canteen_http_requests_total")
	routes := map[string]float64{}
	for _, metric := range requests.GetMetric() {
		routes[labelValue(metric, "route")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, 1.0, routes["/api/v1/admin/scan/action/"])
	assert.Equal(t, 1.0, routes["unmatched"])

	issued := findFamily(t, mfs, "canteen_qr_tokens_issued_total")
	assert.Equal(t, 2.0, issued.GetMetric()[0].GetCounter().GetValue())

	scans := findFamily(t, mfs, "canteen_qr_scans_total")
	require.Len(t, scans.GetMetric(), 1)
	assert.Equal(t, "expired", labelValue(scans.GetMetric()[0], "outcome"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.IncQRIssued()
		m.IncScan("resolve", OutcomeOK)
	})

	assert.NotPanics(t, func() {
		New(nil).IncQRIssued()
	})
}
