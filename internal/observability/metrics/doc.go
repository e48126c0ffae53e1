// Package metrics provides centralized Prometheus metrics for the application.
//
// All collectors are registered with the default registry via promauto at
// package initialization, so importing the package is enough to expose them
// on the /metrics endpoint.
package metrics
