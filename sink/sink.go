// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package sink provides [unwrap.Sink] implementations.
//
// Install one with [unwrap.SetSink], combining several with
// [unwrap.MultiSink]:
//
//	defer unwrap.SetSink(unwrap.MultiSink(
//		sink.Writer(os.Stderr),
//		sink.Sentry(nil, 2*time.Second),
//	))()
package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"go.astrophena.name/unwrap"
	"go.astrophena.name/unwrap/internal/syncx"
	"go.astrophena.name/unwrap/logger"
)

// Message is the text a sink reports for f.
func Message(f *unwrap.Failure) string {
	if f.Location.IsZero() {
		return "Panic @ unknown location"
	}
	return "Panic @ " + f.Location.String()
}

// Writer returns a sink that writes one line per failure to w.
// Writes are serialized, so w needs no locking of its own.
func Writer(w io.Writer) unwrap.Sink {
	p := syncx.Protect(w)
	return unwrap.SinkFunc(func(f *unwrap.Failure) {
		p.WriteAccess(func(w io.Writer) {
			fmt.Fprintln(w, Message(f))
		})
	})
}

// Logger returns a sink that logs failures to l at error level.
func Logger(l *slog.Logger) unwrap.Sink {
	return unwrap.SinkFunc(func(f *unwrap.Failure) {
		l.LogAttrs(context.Background(), slog.LevelError, Message(f), locationAttrs(f)...)
	})
}

// Context returns a sink that logs to the [logger.Logger] carried by ctx.
func Context(ctx context.Context) unwrap.Sink {
	return Logger(logger.Get(ctx).Logger)
}

func locationAttrs(f *unwrap.Failure) []slog.Attr {
	if f.Location.IsZero() {
		return nil
	}
	return []slog.Attr{
		slog.String("file", f.Location.File),
		slog.Int("line", f.Location.Line),
		slog.Int("column", f.Location.Column),
	}
}

// Zap returns a sink that logs failures to l at error level.
func Zap(l *zap.Logger) unwrap.Sink {
	return unwrap.SinkFunc(func(f *unwrap.Failure) {
		var fields []zap.Field
		if !f.Location.IsZero() {
			fields = []zap.Field{
				zap.String("file", f.Location.File),
				zap.Int("line", f.Location.Line),
				zap.Int("column", f.Location.Column),
			}
		}
		l.Error(Message(f), fields...)
	})
}

// Sentry returns a sink that captures failures as Sentry messages on hub
// and waits up to timeout for them to be delivered, since the process is
// likely about to exit. If hub is nil, the current hub is used.
func Sentry(hub *sentry.Hub, timeout time.Duration) unwrap.Sink {
	return unwrap.SinkFunc(func(f *unwrap.Failure) {
		h := hub
		if h == nil {
			h = sentry.CurrentHub()
		}
		h.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelFatal)
			if !f.Location.IsZero() {
				scope.SetTag("file", f.Location.File)
				scope.SetTag("line", fmt.Sprint(f.Location.Line))
				scope.SetTag("column", fmt.Sprint(f.Location.Column))
			}
			h.CaptureMessage(Message(f))
		})
		h.Flush(timeout)
	})
}
