// Package metrics registers the Prometheus instruments for the ingestion
// pipeline and the realtime fan-out. Counters register on the default
// registry and are exposed at /metrics by the router.
package metrics
