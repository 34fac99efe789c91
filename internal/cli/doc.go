// Package cli holds the terminal presentation of flightdash: the loading
// spinner driven by orchestration events, the styled dashboard and failure
// output, and the exit error used by commands.
package cli
