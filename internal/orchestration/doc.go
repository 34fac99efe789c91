// Package orchestration runs a graph of asynchronous fetch steps for one
// screen load: root steps start immediately, dependent steps start once
// every dependency has succeeded, and the merged result of all steps is
// written to an OutputSink in a single call. Any failure from any stage is
// funnelled into exactly one FailureSink delivery instead.
//
// Presentation concerns are kept out of this package: progress reporting
// goes through the Observer interface and output through OutputSink.
package orchestration
