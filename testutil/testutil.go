// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package testutil provides helpers for common testing scenarios.
package testutil

import (
	"reflect"
	"strings"
	"testing"
)

// AssertEqual fails the test if got is not deeply equal to want.
// It prints both values for easy comparison upon failure.
func AssertEqual(t *testing.T, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("values are not equal:\ngot:  %#v\nwant: %#v", got, want)
	}
}

// AssertContains fails the test if s does not contain substr.
func AssertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Fatalf("%q does not contain %q", s, substr)
	}
}

// AssertPanics calls f and fails the test if f returns normally.
// It returns the value f panicked with.
func AssertPanics(t *testing.T, f func()) (r any) {
	t.Helper()
	panicked := true
	func() {
		defer func() { r = recover() }()
		f()
		panicked = false
	}()
	if !panicked {
		t.Fatalf("function did not panic")
	}
	return r
}

// PanicValue calls f and returns the value it panicked with converted to T.
// It fails the test if f does not panic or panics with a value of another
// type.
func PanicValue[T any](t *testing.T, f func()) T {
	t.Helper()
	r := AssertPanics(t, f)
	v, ok := r.(T)
	if !ok {
		t.Fatalf("panic value %#v is of type %T, want %T", r, r, *new(T))
	}
	return v
}
