// Package errors provides error annotation with slog attributes and source
// locations. It is a drop-in replacement for the standard library errors
// package with extra helpers for structured logging.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError carries a message, an optional wrapped error, slog attributes,
// and the source location where the annotation happened.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

// Error implements the error interface.
func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates a sentinel error meant for comparisons with [Is].
// Unlike [Wrap], it does not capture a source location since sentinels are
// usually declared at package level.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg}
}

// Wrap annotates err with a message and optional slog attributes. The call
// site is recorded so that [SlogError] can point at the place where the error
// was annotated. A nil err yields an annotation-only error so that callers do
// not have to guard against it.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: caller(2),
	}
}

// DecoratePanic converts a recovered panic value into an annotated error with
// the source location of the recovery site.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	var err error
	if e, ok := recovered.(error); ok {
		err = e
	}
	ae := &annotatedError{
		msg:    fmt.Sprintf("panic: %v", recovered),
		err:    err,
		source: caller(2),
	}
	// The message already embeds the panic value; avoid repeating it.
	if err != nil {
		ae.msg = "panic"
	}
	return ae
}

// SlogError converts an error into an [slog.Attr] carrying the message, the
// innermost recorded source location, and all annotations collected from the
// error chain under the "error" group.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []slog.Attr
		source      string
	)
	collect(err, &annotations, &source)

	attrs := []any{slog.String("message", err.Error())}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if len(annotations) > 0 {
		groupArgs := make([]any, 0, len(annotations))
		for _, a := range annotations {
			groupArgs = append(groupArgs, a)
		}
		attrs = append(attrs, slog.Group("annotations", groupArgs...))
	}
	return slog.Group("error", attrs...)
}

// collect walks the error chain gathering annotations and the outermost
// source location.
func collect(err error, annotations *[]slog.Attr, source *string) {
	for err != nil {
		var ae *annotatedError
		if errors.As(err, &ae) {
			*annotations = append(*annotations, ae.attrs...)
			if *source == "" && ae.source != "" {
				*source = ae.source
			}
			err = ae.err
			continue
		}
		err = errors.Unwrap(err)
	}
}

// caller resolves the file:line of the caller skip frames up, with the
// directory stripped to keep log lines short.
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// Re-exported standard library helpers so that callers only import one errors
// package.

// New returns an error with the given text.
func New(text string) error { return errors.New(text) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join wraps the given errors into a single error.
func Join(errs ...error) error { return errors.Join(errs...) }
