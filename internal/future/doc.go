// Package future provides a settle-once asynchronous result container and
// the combinators used to fan work out and back in.
//
// A Future settles exactly once, either to a value or to an error. Every
// settlement is stamped with a process-wide sequence number so that
// "which failure happened first" has a deterministic answer even when the
// observer sees the settlements late. Futures derived without new work
// (Erase, and Then passing a failure through) carry their source's number.
package future
