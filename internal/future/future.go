package future

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrNilRejection replaces a nil error passed to a reject function, so a
// rejected Future always carries a non-nil error.
var ErrNilRejection = errors.New("future rejected with nil error")

// ErrNilFuture is reported when a combinator receives a nil *Future.
var ErrNilFuture = errors.New("nil future")

// settleSeq orders settlements across all futures in the process.
var settleSeq atomic.Uint64

// PanicError carries a panic recovered while producing a Future's value.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Future is an asynchronous result that settles exactly once.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
	seq   uint64
}

// New returns a pending Future together with the functions that settle it.
// Only the first call to either function has an effect.
func New[T any]() (f *Future[T], resolve func(T), reject func(error)) {
	f = &Future[T]{done: make(chan struct{})}
	return f, f.resolve, f.reject
}

// Resolved returns a Future already settled to v.
func Resolved[T any](v T) *Future[T] {
	f, resolve, _ := New[T]()
	resolve(v)
	return f
}

// Rejected returns a Future already settled to err.
func Rejected[T any](err error) *Future[T] {
	f, _, reject := New[T]()
	reject(err)
	return f
}

func (f *Future[T]) resolve(v T) {
	f.settle(v, nil)
}

func (f *Future[T]) reject(err error) {
	if err == nil {
		err = ErrNilRejection
	}
	var zero T
	f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) {
	f.settleWithSeq(v, err, 0)
}

// settleWithSeq settles f with the settlement number of the Future it was
// derived from. A zero seq draws a fresh number.
func (f *Future[T]) settleWithSeq(v T, err error, seq uint64) {
	f.once.Do(func() {
		if seq == 0 {
			seq = settleSeq.Add(1)
		}
		f.value, f.err, f.seq = v, err, seq
		close(f.done)
	})
}

// Done returns a channel closed when the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the Future has settled.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Future settles or ctx is done. Returning because of
// ctx does not affect the Future itself.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Err returns the failure of a settled Future, or nil while pending or on success.
func (f *Future[T]) Err() error {
	if !f.Settled() {
		return nil
	}
	return f.err
}

// Peek returns the settled Result without blocking. ok is false while pending.
func (f *Future[T]) Peek() (res Result[T], ok bool) {
	if !f.Settled() {
		return Result[T]{}, false
	}
	return Result[T]{Value: f.value, Err: f.err, seq: f.seq}, true
}

// Go runs fn on a new goroutine and returns a Future of its outcome. A panic
// in fn settles the Future with a *PanicError.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f, resolve, reject := New[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				reject(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		v, err := fn(ctx)
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}()
	return f
}

// FromCallback adapts a callback-style producer. fn is invoked synchronously
// and may settle the Future at any later point from any goroutine.
func FromCallback[T any](fn func(resolve func(T), reject func(error))) *Future[T] {
	f, resolve, reject := New[T]()
	func() {
		defer func() {
			if r := recover(); r != nil {
				reject(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		fn(resolve, reject)
	}()
	return f
}

// ErrChannelClosed is the failure of a FromChan Future whose channels were
// both closed without delivering anything.
var ErrChannelClosed = errors.New("future source channel closed without a result")

// FromChan adapts a producer that reports on a value channel and an error
// channel. The first delivery on either channel settles the Future.
func FromChan[T any](values <-chan T, errs <-chan error) *Future[T] {
	f, resolve, reject := New[T]()
	go func() {
		for values != nil || errs != nil {
			select {
			case v, ok := <-values:
				if !ok {
					values = nil
					continue
				}
				resolve(v)
				return
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				reject(err)
				return
			}
		}
		reject(ErrChannelClosed)
	}()
	return f
}

// Then returns a Future settled with fn applied to f's value. A failure of f
// propagates unchanged, keeping f's settlement order, and fn is not called.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out, resolve, reject := New[U]()
	go func() {
		<-f.done
		if f.err != nil {
			var zero U
			out.settleWithSeq(zero, f.err, f.seq)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				reject(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		v, err := fn(f.value)
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}()
	return out
}

// Erase converts a typed Future into a Future[any] with the same outcome and
// the same settlement number, so erased siblings order as their sources did.
func Erase[T any](f *Future[T]) *Future[any] {
	if f == nil {
		return Rejected[any](ErrNilFuture)
	}
	out := &Future[any]{done: make(chan struct{})}
	go func() {
		<-f.done
		var v any
		if f.err == nil {
			v = f.value
		}
		out.settleWithSeq(v, f.err, f.seq)
	}()
	return out
}
