package spread

import (
	"fmt"
	"reflect"
)

// ArgumentError reports a tuple that does not fit the target function.
type ArgumentError struct {
	// Position is the offending tuple index, or -1 for an arity mismatch.
	Position int
	Want     string
	Got      string
}

func (e *ArgumentError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("spread: arity mismatch: want %s values, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("spread: argument %d: want %s, got %s", e.Position, e.Want, e.Got)
}

func arity(values []any, n int) error {
	if len(values) != n {
		return &ArgumentError{Position: -1, Want: fmt.Sprint(n), Got: fmt.Sprint(len(values))}
	}
	return nil
}

// arg converts values[i] to T. A nil entry becomes T's zero value when T
// admits nil.
func arg[T any](values []any, i int) (T, error) {
	var zero T
	v := values[i]
	if t, ok := v.(T); ok {
		return t, nil
	}
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if v == nil && nilable(rt) {
		return zero, nil
	}
	return zero, &ArgumentError{Position: i, Want: rt.String(), Got: typeName(v)}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// Spread1 adapts a one-parameter function.
func Spread1[A any](fn func(A) error) func([]any) error {
	return func(values []any) error {
		if err := arity(values, 1); err != nil {
			return err
		}
		a, err := arg[A](values, 0)
		if err != nil {
			return err
		}
		return fn(a)
	}
}

// Spread2 adapts a two-parameter function.
func Spread2[A, B any](fn func(A, B) error) func([]any) error {
	return func(values []any) error {
		if err := arity(values, 2); err != nil {
			return err
		}
		a, err := arg[A](values, 0)
		if err != nil {
			return err
		}
		b, err := arg[B](values, 1)
		if err != nil {
			return err
		}
		return fn(a, b)
	}
}

// Spread3 adapts a three-parameter function.
func Spread3[A, B, C any](fn func(A, B, C) error) func([]any) error {
	return func(values []any) error {
		_, err := Apply3(func(a A, b B, c C) (struct{}, error) {
			return struct{}{}, fn(a, b, c)
		})(values)
		return err
	}
}

// Spread4 adapts a four-parameter function.
func Spread4[A, B, C, D any](fn func(A, B, C, D) error) func([]any) error {
	return func(values []any) error {
		if err := arity(values, 4); err != nil {
			return err
		}
		a, err := arg[A](values, 0)
		if err != nil {
			return err
		}
		b, err := arg[B](values, 1)
		if err != nil {
			return err
		}
		c, err := arg[C](values, 2)
		if err != nil {
			return err
		}
		d, err := arg[D](values, 3)
		if err != nil {
			return err
		}
		return fn(a, b, c, d)
	}
}

// Apply2 is Spread2 for functions that produce a value.
func Apply2[A, B, R any](fn func(A, B) (R, error)) func([]any) (R, error) {
	return func(values []any) (R, error) {
		var zero R
		if err := arity(values, 2); err != nil {
			return zero, err
		}
		a, err := arg[A](values, 0)
		if err != nil {
			return zero, err
		}
		b, err := arg[B](values, 1)
		if err != nil {
			return zero, err
		}
		return fn(a, b)
	}
}

// Apply3 is Spread3 for functions that produce a value.
func Apply3[A, B, C, R any](fn func(A, B, C) (R, error)) func([]any) (R, error) {
	return func(values []any) (R, error) {
		var zero R
		if err := arity(values, 3); err != nil {
			return zero, err
		}
		a, err := arg[A](values, 0)
		if err != nil {
			return zero, err
		}
		b, err := arg[B](values, 1)
		if err != nil {
			return zero, err
		}
		c, err := arg[C](values, 2)
		if err != nil {
			return zero, err
		}
		return fn(a, b, c)
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Spread adapts an arbitrary function through reflection. fn must be a
// non-variadic function returning nothing or a single error. The returned
// function validates arity and assignability before calling fn.
func Spread(fn any) (func([]any) error, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("spread: want a function, got %s", typeName(fn))
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("spread: variadic function %s is not supported", ft)
	}
	switch {
	case ft.NumOut() == 0:
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
	default:
		return nil, fmt.Errorf("spread: function %s must return nothing or error", ft)
	}

	return func(values []any) error {
		if len(values) != ft.NumIn() {
			return &ArgumentError{Position: -1, Want: fmt.Sprint(ft.NumIn()), Got: fmt.Sprint(len(values))}
		}
		args := make([]reflect.Value, len(values))
		for i, v := range values {
			want := ft.In(i)
			if v == nil {
				if !nilable(want) {
					return &ArgumentError{Position: i, Want: want.String(), Got: "nil"}
				}
				args[i] = reflect.Zero(want)
				continue
			}
			rv := reflect.ValueOf(v)
			if !rv.Type().AssignableTo(want) {
				return &ArgumentError{Position: i, Want: want.String(), Got: rv.Type().String()}
			}
			args[i] = rv
		}
		out := fv.Call(args)
		if len(out) == 1 && !out[0].IsNil() {
			return out[0].Interface().(error)
		}
		return nil
	}, nil
}
