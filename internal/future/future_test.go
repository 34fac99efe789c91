package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFuture_SettlesOnce(t *testing.T) {
	t.Parallel()
	f, resolve, reject := New[string]()
	if f.Settled() {
		t.Fatal("new future should be pending")
	}
	resolve("first")
	resolve("second")
	reject(errors.New("late"))

	v, err := f.Await(context.Background())
	if err != nil || v != "first" {
		t.Fatalf("Await = (%q, %v), want (\"first\", nil)", v, err)
	}
}

func TestFuture_RejectNilBecomesError(t *testing.T) {
	t.Parallel()
	f := Rejected[int](nil)
	if _, err := f.Await(context.Background()); !errors.Is(err, ErrNilRejection) {
		t.Fatalf("expected ErrNilRejection, got %v", err)
	}
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	t.Parallel()
	f, _, _ := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if f.Settled() {
		t.Error("abandoning Await must not settle the future")
	}
}

func TestFuture_PeekAndErr(t *testing.T) {
	t.Parallel()
	f, _, reject := New[int]()
	if _, ok := f.Peek(); ok {
		t.Error("Peek on pending future should report !ok")
	}
	if f.Err() != nil {
		t.Error("Err on pending future should be nil")
	}
	boom := errors.New("boom")
	reject(boom)
	res, ok := f.Peek()
	if !ok || !errors.Is(res.Err, boom) || res.Seq() == 0 {
		t.Errorf("Peek = (%+v, %v)", res, ok)
	}
	if !errors.Is(f.Err(), boom) {
		t.Errorf("Err = %v, want %v", f.Err(), boom)
	}
}

func TestFuture_SequenceFollowsSettlementOrder(t *testing.T) {
	t.Parallel()
	a, resolveA, _ := New[int]()
	b, resolveB, _ := New[int]()
	resolveB(2)
	resolveA(1)
	ra, _ := a.Peek()
	rb, _ := b.Peek()
	if rb.Seq() >= ra.Seq() {
		t.Errorf("b settled first but seq(b)=%d >= seq(a)=%d", rb.Seq(), ra.Seq())
	}
}

func TestGo(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		fn      func(context.Context) (int, error)
		want    int
		wantErr bool
	}{
		{"value", func(context.Context) (int, error) { return 42, nil }, 42, false},
		{"error", func(context.Context) (int, error) { return 0, errors.New("not found") }, 0, true},
		{"panic", func(context.Context) (int, error) { panic("kaboom") }, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := Go(context.Background(), tt.fn).Await(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if v != tt.want {
				t.Errorf("value = %d, want %d", v, tt.want)
			}
		})
	}
}

func TestGo_PanicCarriesValue(t *testing.T) {
	t.Parallel()
	_, err := Go(context.Background(), func(context.Context) (struct{}, error) {
		panic("flight service exploded")
	}).Await(context.Background())
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PanicError, got %T", err)
	}
	if pe.Value != "flight service exploded" || len(pe.Stack) == 0 {
		t.Errorf("unexpected panic error: %+v", pe)
	}
}

func TestFromCallback(t *testing.T) {
	t.Parallel()
	t.Run("async resolve", func(t *testing.T) {
		t.Parallel()
		f := FromCallback(func(resolve func(string), _ func(error)) {
			go func() {
				time.Sleep(5 * time.Millisecond)
				resolve("rain")
			}()
		})
		if v, err := f.Await(context.Background()); err != nil || v != "rain" {
			t.Errorf("Await = (%q, %v)", v, err)
		}
	})
	t.Run("sync reject", func(t *testing.T) {
		t.Parallel()
		unavailable := errors.New("forecast unavailable")
		f := FromCallback(func(_ func(string), reject func(error)) { reject(unavailable) })
		if !f.Settled() {
			t.Fatal("synchronous rejection should settle before return")
		}
		if _, err := f.Await(context.Background()); err != unavailable {
			t.Errorf("error should propagate unchanged, got %v", err)
		}
	})
	t.Run("panic", func(t *testing.T) {
		t.Parallel()
		f := FromCallback(func(func(string), func(error)) { panic("bad callback") })
		var pe *PanicError
		if _, err := f.Await(context.Background()); !errors.As(err, &pe) {
			t.Errorf("expected *PanicError, got %v", err)
		}
	})
}

func TestFromChan(t *testing.T) {
	t.Parallel()
	t.Run("value", func(t *testing.T) {
		t.Parallel()
		values := make(chan int, 1)
		values <- 7
		if v, err := FromChan(values, nil).Await(context.Background()); err != nil || v != 7 {
			t.Errorf("Await = (%d, %v)", v, err)
		}
	})
	t.Run("error", func(t *testing.T) {
		t.Parallel()
		errs := make(chan error, 1)
		errs <- errors.New("denied")
		if _, err := FromChan(make(chan int), errs).Await(context.Background()); err == nil || err.Error() != "denied" {
			t.Errorf("unexpected error %v", err)
		}
	})
	t.Run("both closed", func(t *testing.T) {
		t.Parallel()
		values := make(chan int)
		errs := make(chan error)
		close(values)
		close(errs)
		if _, err := FromChan(values, errs).Await(context.Background()); !errors.Is(err, ErrChannelClosed) {
			t.Errorf("expected ErrChannelClosed, got %v", err)
		}
	})
}

func TestThen(t *testing.T) {
	t.Parallel()
	doubled := Then(Resolved(21), func(v int) (int, error) { return v * 2, nil })
	if v, err := doubled.Await(context.Background()); err != nil || v != 42 {
		t.Errorf("Then = (%d, %v)", v, err)
	}

	called := false
	boom := errors.New("boom")
	failed := Then(Rejected[int](boom), func(v int) (int, error) {
		called = true
		return v, nil
	})
	if _, err := failed.Await(context.Background()); err != boom {
		t.Errorf("failure should propagate unchanged, got %v", err)
	}
	if called {
		t.Error("fn must not run after a failure")
	}
}

func TestErase(t *testing.T) {
	t.Parallel()
	v, err := Erase(Resolved("UA_343223")).Await(context.Background())
	if err != nil || v.(string) != "UA_343223" {
		t.Errorf("Erase = (%v, %v)", v, err)
	}
	if _, err := Erase[int](nil).Await(context.Background()); !errors.Is(err, ErrNilFuture) {
		t.Errorf("Erase(nil) = %v, want ErrNilFuture", err)
	}
}

func TestErase_KeepsSettlementOrder(t *testing.T) {
	t.Parallel()
	for range 200 {
		a, _, rejectA := New[int]()
		b, _, rejectB := New[string]()
		ea, eb := Erase(a), Erase(b)
		rejectB(errors.New("plane grounded"))
		rejectA(errors.New("forecast unavailable"))

		ctx := context.Background()
		_, _ = ea.Await(ctx)
		_, _ = eb.Await(ctx)
		ra, _ := ea.Peek()
		rb, _ := eb.Peek()
		sa, _ := a.Peek()
		sb, _ := b.Peek()
		if ra.Seq() != sa.Seq() || rb.Seq() != sb.Seq() {
			t.Fatalf("erased seq (%d, %d) differs from source (%d, %d)", ra.Seq(), rb.Seq(), sa.Seq(), sb.Seq())
		}
		if rb.Seq() >= ra.Seq() {
			t.Fatalf("b settled first but erased seq(b)=%d >= seq(a)=%d", rb.Seq(), ra.Seq())
		}
		results := []Result[any]{ra, rb}
		if idx, ok := FirstFailure(results); !ok || idx != 1 {
			t.Fatalf("FirstFailure = %d, want the erased b", idx)
		}
	}
}

func TestThen_FailureKeepsSettlementOrder(t *testing.T) {
	t.Parallel()
	src := Rejected[int](errors.New("boom"))
	out := Then(src, func(v int) (int, error) { return v, nil })
	if _, err := out.Await(context.Background()); err == nil {
		t.Fatal("failure should propagate")
	}
	rs, _ := src.Peek()
	ro, _ := out.Peek()
	if ro.Seq() != rs.Seq() {
		t.Errorf("seq = %d, want source seq %d", ro.Seq(), rs.Seq())
	}
}

// TestFuture_ConcurrentSettle races many settlers against one future.
func TestFuture_ConcurrentSettle(t *testing.T) {
	t.Parallel()
	f, resolve, reject := New[int]()
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if i%2 == 0 {
				resolve(i)
			} else {
				reject(errors.New("odd"))
			}
		}()
	}
	close(start)
	wg.Wait()
	if !f.Settled() {
		t.Fatal("future should be settled")
	}
	first, _ := f.Peek()
	again, _ := f.Peek()
	if first != again {
		t.Error("settled outcome changed after settlement")
	}
}
