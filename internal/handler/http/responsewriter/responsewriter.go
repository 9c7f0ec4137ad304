// Package responsewriter wraps http.ResponseWriter so middleware can read
// the status code and body size after the handler ran.
package responsewriter

import (
	"net/http"
)

// Recorder records the status and size of a response.
type Recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

// Wrap returns w itself when it already is a Recorder, so stacked
// middleware share one wrapper.
func Wrap(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}
	return &Recorder{ResponseWriter: w}
}

// WriteHeader records the first status code and forwards it.
func (w *Recorder) WriteHeader(statusCode int) {
	if w.status != 0 {
		return
	}
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *Recorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Status returns the response status, 200 when the handler wrote nothing.
func (w *Recorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Written reports whether the header has been sent.
func (w *Recorder) Written() bool { return w.status != 0 }

// Bytes returns the number of body bytes written.
func (w *Recorder) Bytes() int { return w.bytes }

// Unwrap supports http.ResponseController.
func (w *Recorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
