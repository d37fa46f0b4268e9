package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer implements io.Writer on top of t.Log so that log output is shown only
// for failing tests.
type Writer struct {
	t    *testing.T
	done chan struct{}
}

// NewWriter creates a Writer bound to the test's lifetime. Writing after the
// test has finished panics, which surfaces missing cleanup of background work.
func NewWriter(t *testing.T) io.Writer {
	w := &Writer{
		t:    t,
		done: make(chan struct{}),
	}
	t.Cleanup(func() {
		close(w.done)
	})
	return w
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.done:
		panic("testhelpers: write after test completion")
	default:
		if out := strings.TrimSuffix(string(p), "\n"); out != "" {
			w.t.Log(out)
		}
		return len(p), nil
	}
}
