// Package assert holds the few test helpers used across the code base. They
// stop the test at the first failure.
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/barter/errors"
)

// Tester is the part of testing.TB the helpers need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, map, slice, channel or
// function.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack of barter errors.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal compares with reflect.DeepEqual.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("no panic")
		}
	}()
	fn()
}

// FieldError checks the errors reported for one field of a validation
// result. With a nil want the field must have no error at all, otherwise
// one of its errors must be want.
func FieldError(t testing.TB, err error, field string, want *errors.Error) {
	t.Helper()
	found := errors.FieldErrors(err, field)
	if want == nil {
		if len(found) != 0 {
			logErrors(t, found)
			t.Fatalf("want no error for %q, got %d", field, len(found))
		}
		return
	}
	for _, e := range found {
		if want.Is(e) {
			if len(found) > 1 {
				logErrors(t, found)
				t.Errorf("want one error for %q, got %d", field, len(found))
			}
			return
		}
	}
	logErrors(t, found)
	t.Fatalf("no %q error for %q", want, field)
}

func logErrors(t testing.TB, errs []error) {
	for i, e := range errs {
		t.Logf("error %d: %q", i+1, e)
	}
}

// IsErr fails unless got is want or, for root errors, wraps it.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if root, ok := want.(interface{ Is(error) bool }); ok && root.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
