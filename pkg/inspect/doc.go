// Package inspect serves a developer inspector for a hybrids runtime.
//
// Routes:
//
//	GET /healthz  status, runtime id and connected clients as JSON
//	GET /metrics  Prometheus metrics from the configured gatherer
//	GET /tree     the last tree snapshot, as plain text
//	GET /events   websocket stream of "@invalidate" notifications
//
// Each notification is sent as a JSON text frame:
//
//	{"runtime":"6f1c…","tag":"child-tag","id":3,"type":"@invalidate"}
package inspect
