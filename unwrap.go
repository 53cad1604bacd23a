// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package unwrap extracts values from optional and fallible carriers, panicking
when no value is present.

Unlike unwrapping an (T, error) pair, the failure payload of a [Result] may be
of any type: it is discarded on the failure path and never formatted, compared
or logged. The only thing preserved is the fact that a value was absent and,
depending on the build, where that happened.

	port := unwrap.FromOK(os.LookupEnv("PORT")).OrPanic()
	cfg := parse(b).OrPanic() // parse returns unwrap.Result[Config, parseCode]

# Build tags

How much the panic says about its call site is decided at build time:

  - No tags: the panic value is a bare [*Failure] without location.
  - unwrap_trackcaller: the call site (file and line) is recorded in
    [Failure.Location].
  - unwrap_panicloc: as unwrap_trackcaller, and the panic message reads
    "paniced at file:line:column".

These tags only govern the panic value. If the panic is not recovered, the Go
runtime still prints a goroutine traceback with the file and line of every
frame. Run the program with GOTRACEBACK=none for a bare abort that prints
only the panic message.

The Go runtime does not report columns. Use [Result.OrPanicAt] and
[Option.OrPanicAt] to supply a full [Location]; the pinloc devtool rewrites
OrPanic calls into that form automatically.

# Sinks

[SetSink] installs a process-wide [Sink] that receives every [*Failure]
right before the panic. Package sink provides sinks for writers, loggers and
error trackers.
*/
package unwrap

// Unwrapper is implemented by the carriers of this package.
type Unwrapper[T any] interface {
	// OrPanic returns the contained value or panics with a [*Failure].
	OrPanic() T
}

var (
	_ Unwrapper[int] = Result[int, int]{}
	_ Unwrapper[int] = Option[int]{}
)

// Value unwraps and returns val if err is nil.
// It panics if err is not nil.
//
// Unlike [Result.OrPanic], the panic value is err itself.
func Value[T any](val T, err error) T {
	NoError(err)
	return val
}

// NoError panics if err is not nil.
func NoError(err error) {
	if err != nil {
		panic(err)
	}
}

// OK returns val if ok is true. Otherwise it panics with a [*Failure].
// It is meant for functions returning a comma-ok pair:
//
//	home := unwrap.OK(os.LookupEnv("HOME"))
func OK[T any](val T, ok bool) T {
	if !ok {
		abort(1)
	}
	return val
}
