package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func delayed[T any](d time.Duration, v T, err error) *Future[T] {
	return Go(context.Background(), func(context.Context) (T, error) {
		time.Sleep(d)
		return v, err
	})
}

func TestJoinAll_PreservesInputOrder(t *testing.T) {
	t.Parallel()
	// Reverse latency: the last input settles first.
	got, err := JoinAll(context.Background(),
		delayed(30*time.Millisecond, "plane", nil),
		delayed(15*time.Millisecond, "forecast", nil),
		delayed(0, "flight", nil),
	).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"plane", "forecast", "flight"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("JoinAll = %v, want %v", got, want)
		}
	}
}

func TestJoinAll_Empty(t *testing.T) {
	t.Parallel()
	got, err := JoinAll[int](context.Background()).Await(context.Background())
	if err != nil || len(got) != 0 {
		t.Errorf("JoinAll() = (%v, %v), want empty success", got, err)
	}
}

func TestJoinAll_FirstSettledFailureWins(t *testing.T) {
	t.Parallel()
	early := errors.New("early")
	late := errors.New("late")
	_, err := JoinAll(context.Background(),
		delayed(40*time.Millisecond, 0, late),
		delayed(0, 0, early),
		delayed(10*time.Millisecond, 1, nil),
	).Await(context.Background())
	if err != early {
		t.Errorf("JoinAll error = %v, want the earliest settled failure unchanged", err)
	}
}

func TestJoinAll_WaitsForAllInputs(t *testing.T) {
	t.Parallel()
	slow, resolveSlow, _ := New[int]()
	join := JoinAll(context.Background(), Rejected[int](errors.New("fast failure")), slow)

	select {
	case <-join.Done():
		t.Fatal("join settled before every input settled")
	case <-time.After(20 * time.Millisecond):
	}
	resolveSlow(1)
	select {
	case <-join.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("join did not settle after the last input")
	}
}

func TestJoinAll_NilInput(t *testing.T) {
	t.Parallel()
	_, err := JoinAll(context.Background(), Resolved(1), nil).Await(context.Background())
	if !errors.Is(err, ErrNilFuture) {
		t.Errorf("expected ErrNilFuture, got %v", err)
	}
}

func TestJoinAll_ContextCancel(t *testing.T) {
	t.Parallel()
	pending, _, _ := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	join := JoinAll(ctx, pending)
	cancel()
	if _, err := join.Await(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestJoinAllSettled(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	results, err := JoinAllSettled(context.Background(),
		delayed(10*time.Millisecond, 1, nil),
		delayed(0, 0, boom),
	).Await(context.Background())
	if err != nil {
		t.Fatalf("JoinAllSettled should not fail: %v", err)
	}
	if results[0].Value != 1 || results[0].Err != nil {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Err != boom {
		t.Errorf("results[1] = %+v", results[1])
	}
	if i, ok := FirstFailure(results); !ok || i != 1 {
		t.Errorf("FirstFailure = (%d, %v), want (1, true)", i, ok)
	}
}

func TestFirstFailure(t *testing.T) {
	t.Parallel()
	a, b := errors.New("a"), errors.New("b")
	tests := []struct {
		name    string
		results []Result[int]
		want    int
		wantOK  bool
	}{
		{"none", []Result[int]{{seq: 1}, {seq: 2}}, -1, false},
		{"lowest seq", []Result[int]{{Err: a, seq: 9}, {Err: b, seq: 3}}, 1, true},
		{"tie keeps position", []Result[int]{{Err: a, seq: 4}, {Err: b, seq: 4}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FirstFailure(tt.results)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FirstFailure = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestJoinAll_OrderIndependentOfLatency_PropertyBased checks that the joined
// values follow input order for any assignment of latencies.
func TestJoinAll_OrderIndependentOfLatency_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("joined values follow input order", prop.ForAll(
		func(delays []uint8) bool {
			futures := make([]*Future[int], len(delays))
			for i, d := range delays {
				futures[i] = delayed(time.Duration(d%8)*time.Millisecond, i, nil)
			}
			got, err := JoinAll(context.Background(), futures...).Await(context.Background())
			if err != nil || len(got) != len(delays) {
				return false
			}
			for i, v := range got {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.UInt8()),
	))

	properties.TestingRun(t)
}
