// Package assert holds the few assertions custody tests share. Tests that
// need more reach for testify.
package assert

import (
	"reflect"
	"testing"

	"github.com/easlabs/custody/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, map, slice, channel or
// function. Errors are printed with %+v to show their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal compares with reflect.DeepEqual.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError requires err to carry exactly one error for fieldName and that
// error to match want. A nil want requires that no error is reported for
// the field.
func FieldError(t testing.TB, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			t.Fatalf("field %s: want no error, got %q", fieldName, errs)
		}
		return
	}

	switch len(errs) {
	case 0:
		t.Fatalf("field %s: no error found", fieldName)
	case 1:
		if !want.Is(errs[0]) {
			t.Fatalf("field %s: unexpected error %q", fieldName, errs[0])
		}
	default:
		for _, e := range errs {
			if want.Is(e) {
				t.Errorf("field %s: want one error, got %d: %q", fieldName, len(errs), errs)
				return
			}
		}
		t.Fatalf("field %s: %q not found in %q", fieldName, want, errs)
	}
}

// IsErr fails unless want.Is(got). Two nil errors match.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
