package future

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the settled outcome of one Future.
type Result[T any] struct {
	Value T
	Err   error
	seq   uint64
}

// Seq returns the settlement sequence number. Lower numbers settled earlier.
func (r Result[T]) Seq() uint64 { return r.seq }

// FirstFailure returns the index of the earliest-settled failure in results.
// Ties in settlement order are broken by position. ok is false if every
// result succeeded.
func FirstFailure[T any](results []Result[T]) (index int, ok bool) {
	index = -1
	for i, r := range results {
		if r.Err == nil {
			continue
		}
		if index < 0 || r.seq < results[index].seq {
			index = i
		}
	}
	return index, index >= 0
}

// JoinAllSettled returns a Future of every input's Result, in input order.
// It resolves once all inputs have settled and only fails if ctx is done
// first. A nil input counts as a Future rejected with ErrNilFuture.
func JoinAllSettled[T any](ctx context.Context, futures ...*Future[T]) *Future[[]Result[T]] {
	return Go(ctx, func(ctx context.Context) ([]Result[T], error) {
		return settleAll(ctx, futures)
	})
}

// JoinAll returns a Future of all input values in input order, regardless of
// the order in which the inputs settled. If any input fails, the join fails
// with the earliest-settled failure, unchanged. The join waits for every
// input to settle before reporting.
func JoinAll[T any](ctx context.Context, futures ...*Future[T]) *Future[[]T] {
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		results, err := settleAll(ctx, futures)
		if err != nil {
			return nil, err
		}
		if i, failed := FirstFailure(results); failed {
			return nil, results[i].Err
		}
		values := make([]T, len(results))
		for i, r := range results {
			values[i] = r.Value
		}
		return values, nil
	})
}

// settleAll waits for every future, writing each Result into its own slot.
func settleAll[T any](ctx context.Context, futures []*Future[T]) ([]Result[T], error) {
	results := make([]Result[T], len(futures))
	var g errgroup.Group
	for i, f := range futures {
		if f == nil {
			nilF := Rejected[T](ErrNilFuture)
			results[i], _ = nilF.Peek()
			continue
		}
		g.Go(func() error {
			select {
			case <-f.done:
				results[i] = Result[T]{Value: f.value, Err: f.err, seq: f.seq}
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
