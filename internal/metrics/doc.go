// Package metrics exposes orchestration activity and process memory as
// Prometheus metrics on a private registry, written out in the text
// exposition format.
package metrics
