// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package unwrap

import "go.astrophena.name/unwrap/internal/syncx"

// Sink receives a [*Failure] right before the carrier panics with it.
//
// Report is called on the panicking goroutine, possibly concurrently from
// several goroutines. If Report panics, the panic is discarded and the
// original termination proceeds.
type Sink interface {
	Report(*Failure)
}

// SinkFunc is an adapter to allow the use of ordinary functions as a [Sink].
type SinkFunc func(*Failure)

// Report calls f(fl).
func (f SinkFunc) Report(fl *Failure) { f(fl) }

var sink syncx.Protected[Sink]

// SetSink sets the process-wide [Sink] and returns a function that restores
// the previous one. A nil Sink disables reporting, which is the default.
func SetSink(s Sink) (restore func()) {
	prev := sink.Swap(s)
	return func() { sink.Store(prev) }
}

func report(f *Failure) {
	if s := sink.Load(); s != nil {
		reportSafely(s, f)
	}
}

// MultiSink returns a [Sink] that reports to each of sinks in order.
// A panicking sink does not stop the ones after it.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(f *Failure) {
		for _, s := range sinks {
			reportSafely(s, f)
		}
	})
}

// reportSafely calls s.Report, discarding any panic from it.
func reportSafely(s Sink, f *Failure) {
	defer func() { _ = recover() }()
	s.Report(f)
}
