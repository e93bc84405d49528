// Package middleware provides hybrid.Observer implementations that export
// flush and resolution activity to Prometheus and OpenTelemetry.
//
//	metrics := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	tracing := middleware.OpenTelemetry(middleware.WithTracerName("myapp"))
//
//	rt := hybrid.NewRuntime(
//	    hybrid.WithObserver(middleware.Chain(metrics, tracing)),
//	)
package middleware
