package internal

import (
	"net/http"
	"sync/atomic"
)

// ResponseWriter records the status and body size of a response. The status
// line is committed once: later WriteHeader calls are dropped, which lets the
// error path check Written before answering.
type ResponseWriter struct {
	http.ResponseWriter
	status    int
	size      atomic.Int64
	committed atomic.Bool
}

// NewResponseWriter wraps w. The status defaults to 200 until written.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// commit sends the status line if nothing has been sent yet.
func (w *ResponseWriter) commit(code int) {
	if !w.committed.CompareAndSwap(false, true) {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) WriteHeader(code int) {
	w.commit(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.commit(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.size.Add(int64(n))
	return n, err
}

// Status is the committed status code, or 200 before anything was written.
func (w *ResponseWriter) Status() int { return w.status }

// Size is the number of body bytes written so far.
func (w *ResponseWriter) Size() int64 { return w.size.Load() }

// Written reports whether the status line has been sent.
func (w *ResponseWriter) Written() bool { return w.committed.Load() }

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
