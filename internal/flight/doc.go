// Package flight defines the travel domain records, the service ports the
// dashboard loads them through, and canned in-process implementations of
// those ports with injectable latency and failures.
package flight
