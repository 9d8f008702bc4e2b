package perf

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	jobmetrics "github.com/lumen-lms/lumen/internal/jobs"
)

func TestJobThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	// Token sweeps are frequent and cheap.
	for i := 0; i < 40; i++ {
		tracker := metrics.Track("token_sweep")
		time.Sleep(2 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending sweep tracker: %v", err)
		}
	}

	// Activity prunes run daily and scan more rows.
	for i := 0; i < 5; i++ {
		tracker := metrics.Track("activity_prune")
		time.Sleep(10 * time.Millisecond)
		if err := tracker.End(nil); err != nil {
			t.Fatalf("unexpected error ending prune tracker: %v", err)
		}
	}

	// Inject failures so the failure counter is exercised.
	for i := 0; i < 2; i++ {
		tracker := metrics.Track("token_sweep")
		if err := tracker.End(errors.New("timeout")); err == nil {
			t.Fatal("expected error to propagate")
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "lumen_job_runs_total", map[string]string{"job": "token_sweep", "status": "success"})
	if success != 40 {
		t.Fatalf("expected 40 successful sweeps, got %v", success)
	}
	failures := metricValue(t, families, "lumen_job_failures_total", map[string]string{"job": "token_sweep"})
	if failures != 2 {
		t.Fatalf("expected 2 sweep failures, got %v", failures)
	}
	prunes := metricValue(t, families, "lumen_job_runs_total", map[string]string{"job": "activity_prune", "status": "success"})
	if prunes != 5 {
		t.Fatalf("expected 5 successful prunes, got %v", prunes)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if matchLabels(metric.GetLabel(), labels) && metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(pairs []*dto.LabelPair, expected map[string]string) bool {
	seen := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		seen[pair.GetName()] = pair.GetValue()
	}
	for k, v := range expected {
		if seen[k] != v {
			return false
		}
	}
	return true
}
