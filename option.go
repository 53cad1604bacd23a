// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package unwrap

// Option holds either a value of type T or nothing.
// The zero Option holds nothing.
type Option[T any] struct {
	val T
	ok  bool
}

// Some returns an Option holding val.
func Some[T any](val T) Option[T] { return Option[T]{val: val, ok: true} }

// None returns an empty Option.
func None[T any]() Option[T] { return Option[T]{} }

// FromOK converts a comma-ok pair into an Option.
func FromOK[T any](val T, ok bool) Option[T] {
	if !ok {
		return None[T]()
	}
	return Some(val)
}

// IsSome reports whether o holds a value.
func (o Option[T]) IsSome() bool { return o.ok }

// Get returns the value and true, or the zero T and false.
func (o Option[T]) Get() (T, bool) { return o.val, o.ok }

// OrPanic returns the value. If o is empty, it panics with a [*Failure].
func (o Option[T]) OrPanic() T {
	if !o.ok {
		abort(1)
	}
	return o.val
}

// OrPanicAt is like [Option.OrPanic], but reports loc as the call site
// instead of capturing it at run time.
func (o Option[T]) OrPanicAt(loc Location) T {
	if !o.ok {
		abortAt(loc)
	}
	return o.val
}
