// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package unwrap

// Result holds either a success value of type T or a failure payload of type
// E. The zero Result is a failure with the zero E.
//
// E is opaque: it needs no methods and is never inspected by this package.
type Result[T, E any] struct {
	val T
	err E
	ok  bool
}

// Ok returns a successful Result holding val.
func Ok[T, E any](val T) Result[T, E] {
	return Result[T, E]{val: val, ok: true}
}

// Err returns a failed Result holding the payload e.
func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// FromPair converts a Go (value, error) pair into a Result.
func FromPair[T any](val T, err error) Result[T, error] {
	if err != nil {
		return Err[T](err)
	}
	return Ok[T, error](val)
}

// IsOk reports whether r holds a success value.
func (r Result[T, E]) IsOk() bool { return r.ok }

// Get returns the success value and true, or the zero T and false.
func (r Result[T, E]) Get() (T, bool) { return r.val, r.ok }

// OrPanic returns the success value. If r is a failure, it panics with a
// [*Failure] and the payload is dropped.
func (r Result[T, E]) OrPanic() T {
	if !r.ok {
		abort(1)
	}
	return r.val
}

// OrPanicAt is like [Result.OrPanic], but reports loc as the call site
// instead of capturing it at run time.
func (r Result[T, E]) OrPanicAt(loc Location) T {
	if !r.ok {
		abortAt(loc)
	}
	return r.val
}
