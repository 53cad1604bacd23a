// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package unwrap

import (
	"errors"
	"runtime"
	"strconv"

	"github.com/go4org/hashtriemap"
)

// ErrAbsent is the only kind of failure this package reports: a carrier had
// no value. Every [*Failure] matches it with [errors.Is].
var ErrAbsent = errors.New("unwrap: value absent")

// Failure is the value carriers panic with when they hold no value.
type Failure struct {
	// Location is the call site. It is zero unless the package was built with
	// the unwrap_trackcaller or unwrap_panicloc tag.
	Location Location

	message bool // include Location in Error
}

// Error implements the error interface.
//
// With the unwrap_panicloc tag, it returns "paniced at file:line:column".
// The spelling is part of the message format and is matched by existing
// consumers. Otherwise, it returns the text of [ErrAbsent].
func (f *Failure) Error() string {
	if f.message && !f.Location.IsZero() {
		return "paniced at " + f.Location.String()
	}
	return ErrAbsent.Error()
}

// Unwrap returns [ErrAbsent].
func (f *Failure) Unwrap() error { return ErrAbsent }

// Location identifies a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int // 0 if unknown
}

// IsZero reports whether l is the zero Location.
func (l Location) IsZero() bool { return l == Location{} }

// String returns l formatted as "file:line:column".
func (l Location) String() string {
	return l.File + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// locations caches resolved call sites by program counter.
var locations hashtriemap.HashTrieMap[uintptr, Location]

// Caller returns the location of a function call on the calling goroutine's
// stack. The argument skip is the number of stack frames to ascend, with 0
// identifying the caller of Caller. Column is always 0.
//
// Caller returns the zero Location if the frame does not exist.
func Caller(skip int) Location {
	var pcs [1]uintptr
	// Skip runtime.Callers and Caller itself.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return Location{}
	}
	if loc, ok := locations.Load(pcs[0]); ok {
		return loc
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	loc, _ := locations.LoadOrStore(pcs[0], Location{File: frame.File, Line: frame.Line})
	return loc
}

// abort is the divergent path of every carrier. skip counts frames above the
// caller of abort, as in [Caller].
//
//go:noinline
func abort(skip int) {
	var loc Location
	if trackCaller {
		loc = Caller(skip + 1)
	}
	fail(loc)
}

// abortAt is abort for call sites that know their own location.
//
//go:noinline
func abortAt(loc Location) {
	if !trackCaller {
		loc = Location{}
	}
	fail(loc)
}

func fail(loc Location) {
	f := &Failure{Location: loc, message: panicLocation}
	report(f)
	panic(f)
}
