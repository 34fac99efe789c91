package spread

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type plane struct{ Pilot string }

func TestSpread2_BindsPositions(t *testing.T) {
	t.Parallel()
	var gotPlane plane
	var gotForecast string
	fn := Spread2(func(p plane, forecast string) error {
		gotPlane, gotForecast = p, forecast
		return nil
	})
	if err := fn([]any{plane{Pilot: "Captain Morgan"}, "rain"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPlane.Pilot != "Captain Morgan" || gotForecast != "rain" {
		t.Errorf("got (%+v, %q)", gotPlane, gotForecast)
	}
}

func TestSpread_ErrorsPropagate(t *testing.T) {
	t.Parallel()
	boom := errors.New("merge failed")
	if err := Spread1(func(int) error { return boom })([]any{1}); err != boom {
		t.Errorf("Spread1 error = %v, want %v", err, boom)
	}
	if err := Spread3(func(int, int, int) error { return boom })([]any{1, 2, 3}); err != boom {
		t.Errorf("Spread3 error = %v, want %v", err, boom)
	}
	if err := Spread4(func(int, int, int, int) error { return boom })([]any{1, 2, 3, 4}); err != boom {
		t.Errorf("Spread4 error = %v, want %v", err, boom)
	}
}

func TestSpread_Mismatch(t *testing.T) {
	t.Parallel()
	noop2 := Spread2(func(int, string) error { return nil })
	tests := []struct {
		name     string
		values   []any
		position int
	}{
		{"too few", []any{1}, -1},
		{"too many", []any{1, "a", 2}, -1},
		{"wrong first type", []any{"a", "b"}, 0},
		{"wrong second type", []any{1, 2}, 1},
		{"nil for value type", []any{nil, "b"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var argErr *ArgumentError
			if err := noop2(tt.values); !errors.As(err, &argErr) {
				t.Fatalf("expected *ArgumentError, got %v", err)
			}
			if argErr.Position != tt.position {
				t.Errorf("Position = %d, want %d", argErr.Position, tt.position)
			}
		})
	}
}

func TestSpread_NilPointerArgument(t *testing.T) {
	t.Parallel()
	called := false
	fn := Spread1(func(p *plane) error {
		called = p == nil
		return nil
	})
	if err := fn([]any{nil}); err != nil || !called {
		t.Errorf("nil should bind to a nil pointer, err=%v called=%v", err, called)
	}
}

func TestApply3(t *testing.T) {
	t.Parallel()
	join := Apply3(func(a, b, c string) (string, error) { return a + b + c, nil })
	got, err := join([]any{"x", "y", "z"})
	if err != nil || got != "xyz" {
		t.Errorf("Apply3 = (%q, %v)", got, err)
	}
	if _, err := join([]any{"x"}); err == nil {
		t.Error("expected arity error")
	}
	sum := Apply2(func(a, b int) (int, error) { return a + b, nil })
	if got, err := sum([]any{2, 3}); err != nil || got != 5 {
		t.Errorf("Apply2 = (%d, %v)", got, err)
	}
}

func TestSpread_Reflective(t *testing.T) {
	t.Parallel()
	var got string
	fn, err := Spread(func(id string, n int, s fmt.Stringer) {
		got = fmt.Sprintf("%s-%d-%v", id, n, s == nil)
	})
	if err != nil {
		t.Fatalf("Spread: %v", err)
	}
	if err := fn([]any{"UA_343223", 747, nil}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != "UA_343223-747-true" {
		t.Errorf("got %q", got)
	}

	var argErr *ArgumentError
	if err := fn([]any{"UA_343223", "747", nil}); !errors.As(err, &argErr) || argErr.Position != 1 {
		t.Errorf("expected position 1 mismatch, got %v", err)
	}
	if err := fn([]any{"UA_343223"}); !errors.As(err, &argErr) || argErr.Position != -1 {
		t.Errorf("expected arity mismatch, got %v", err)
	}
}

func TestSpread_ReflectiveReturnsError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	fn, err := Spread(func(int) error { return boom })
	if err != nil {
		t.Fatal(err)
	}
	if err := fn([]any{1}); err != boom {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestSpread_ReflectiveRejectsBadTargets(t *testing.T) {
	t.Parallel()
	var nilFn func()
	for name, target := range map[string]any{
		"not a function": 42,
		"nil function":   nilFn,
		"variadic":       func(...int) {},
		"bad result":     func() int { return 0 },
	} {
		if _, err := Spread(target); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// TestSpread_PositionalFidelity_PropertyBased checks that each tuple slot
// reaches the parameter at the same position.
func TestSpread_PositionalFidelity_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("tuple position i binds parameter i", prop.ForAll(
		func(a int, b string, c bool) bool {
			var ga int
			var gb string
			var gc bool
			err := Spread3(func(x int, y string, z bool) error {
				ga, gb, gc = x, y, z
				return nil
			})([]any{a, b, c})
			return err == nil && ga == a && gb == b && gc == c
		},
		gen.Int(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
