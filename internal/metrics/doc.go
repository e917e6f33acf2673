// Package metrics provides build metrics for eventsite.
//
// Components receive a Recorder through dependency injection. NoopRecorder is the
// default so callers never nil-check; PrometheusRecorder is swapped in when the
// develop server exposes /metrics.
//
//	reg := prometheus.NewRegistry()
//	builder := site.NewBuilder(cfg, logger).WithRecorder(metrics.NewPrometheusRecorder(reg))
package metrics
