package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type (
	errorFormatKey struct{}
	ioKey          struct{}
	loggerKey      struct{}
)

type ioState struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, ioKey{}, ioState{in: in, out: out, err: err})
}

func ioFromContext(ctx context.Context) ioState {
	if ctx != nil {
		if v, ok := ctx.Value(ioKey{}).(ioState); ok {
			return v
		}
	}
	return ioState{}
}

func stdinFromContext(ctx context.Context) io.Reader {
	if in := ioFromContext(ctx).in; in != nil {
		return in
	}
	return os.Stdin
}

func stdoutFromContext(ctx context.Context) io.Writer {
	if out := ioFromContext(ctx).out; out != nil {
		return out
	}
	return os.Stdout
}

func stderrFromContext(ctx context.Context) io.Writer {
	if w := ioFromContext(ctx).err; w != nil {
		return w
	}
	return os.Stderr
}

func withLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFromContext returns the command logger. Without one, messages are
// discarded.
func loggerFromContext(ctx context.Context) *logrus.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*logrus.Logger); ok && l != nil {
			return l
		}
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
