package server

import "net/http"

// statusWriter remembers the status code a handler wrote so middleware can
// log and count it after the fact. It also swallows duplicate WriteHeader
// calls, which the net/http machinery would log as a bug.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(status int) {
	if sw.wroteHeader {
		return
	}
	sw.status = status
	sw.wroteHeader = true
	sw.ResponseWriter.WriteHeader(status)
}

// Write implicitly commits a 200 when the handler never set a status,
// matching what the underlying ResponseWriter would record.
func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

// Status returns the committed status code.
func (sw *statusWriter) Status() int {
	return sw.status
}
