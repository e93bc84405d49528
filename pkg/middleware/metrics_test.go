package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/hybrids/pkg/hybrid"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsConfig(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		config := defaultMetricsConfig()
		if config.Namespace != "hybrids" {
			t.Errorf("Namespace = %q, want %q", config.Namespace, "hybrids")
		}
		if config.Subsystem != "" {
			t.Errorf("Subsystem = %q, want empty", config.Subsystem)
		}
		if config.Registry != prometheus.DefaultRegisterer {
			t.Error("Registry should be DefaultRegisterer")
		}
	})

	t.Run("with options", func(t *testing.T) {
		config := defaultMetricsConfig()
		WithNamespace("myapp")(&config)
		WithSubsystem("ui")(&config)
		WithBuckets([]float64{0.1, 0.5, 1.0})(&config)
		WithConstLabels(prometheus.Labels{"env": "test"})(&config)

		if config.Namespace != "myapp" {
			t.Errorf("Namespace = %q, want %q", config.Namespace, "myapp")
		}
		if config.Subsystem != "ui" {
			t.Errorf("Subsystem = %q, want %q", config.Subsystem, "ui")
		}
		if len(config.Buckets) != 3 {
			t.Errorf("len(Buckets) = %d, want 3", len(config.Buckets))
		}
		if config.ConstLabels["env"] != "test" {
			t.Errorf("ConstLabels = %v", config.ConstLabels)
		}
	})
}

func TestPrometheus_FlushRecordsCounters(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))

	done := m.FlushStarted(3)
	if got := metricGaugeValue(t, m.pending); got != 3 {
		t.Errorf("pending during flush = %v, want 3", got)
	}
	done(1)

	if got := metricCounterValue(t, m.flushesTotal); got != 1 {
		t.Errorf("flushes_total = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.invalidationsTotal); got != 3 {
		t.Errorf("invalidations_total = %v, want 3", got)
	}
	if got := metricCounterValue(t, m.flushErrors); got != 1 {
		t.Errorf("flush_errors_total = %v, want 1", got)
	}
	if got := metricGaugeValue(t, m.pending); got != 0 {
		t.Errorf("pending after flush = %v, want 0", got)
	}
	if got := metricHistogramCount(t, m.flushDuration); got != 1 {
		t.Errorf("flush_duration_seconds count = %d, want 1", got)
	}
}

func TestPrometheus_Resolutions(t *testing.T) {
	m := Prometheus(WithRegistry(prometheus.NewRegistry()))

	m.Resolved("child-tag", true)
	m.Resolved("child-tag", true)
	m.Resolved("child-tag", false)

	if got := metricCounterValue(t, m.resolutions.WithLabelValues("child-tag", "found")); got != 2 {
		t.Errorf("found = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.resolutions.WithLabelValues("child-tag", "miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
}

func TestPrometheus_DefaultRegistryIsShared(t *testing.T) {
	a := Prometheus()
	b := Prometheus(WithNamespace("ignored"))
	if a != b {
		t.Error("observers on the default registerer should be shared")
	}
}

func TestPrometheus_WithRuntime(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := Prometheus(WithRegistry(reg), WithNamespace("test"))
	rt := hybrid.NewRuntime(hybrid.WithObserver(m))

	rt.MustDefine("parent-tag", hybrid.Props{"value": hybrid.Value("a")})
	rt.MustDefine("child-tag", hybrid.Props{"parent": hybrid.Parent("parent-tag")})

	p := rt.MustCreate("parent-tag")
	c := rt.MustCreate("child-tag")
	if err := p.Node().AppendChild(c.Node()); err != nil {
		t.Fatal(err)
	}
	if err := p.Set("value", "b"); err != nil {
		t.Fatal(err)
	}
	rt.Settle()

	if got := metricCounterValue(t, m.flushesTotal); got != 1 {
		t.Errorf("flushes_total = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.invalidationsTotal); got != 1 {
		t.Errorf("invalidations_total = %v, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_flushes_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_flushes_total not registered")
	}
}
