package server

// contextKey keeps this package's context values from colliding with
// other packages' string keys.
type contextKey string

const (
	contextKeyRequestID  contextKey = "requestID"
	contextKeyAPIVersion contextKey = "apiVersion"
)
