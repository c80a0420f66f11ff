/*
Package observability bridges protocol lifecycle hooks to Prometheus metrics.

The encoder and reconciler stay metrics-agnostic; hosts that want metrics
register the hooks returned by Metrics.Hooks on either side of the protocol.
*/
package observability
