// Package resilience provides reliability and fault tolerance patterns for the application.
// It includes circuit breaker and retry implementations used around outbound
// network calls, currently the media acquisition fetcher.
package resilience
