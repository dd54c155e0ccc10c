package request

import (
	"errors"
	"net/http"
)

// ErrInternalServer is the message returned to clients when a handler fails unexpectedly.
var ErrInternalServer = errors.New("internal server error")

// ClientWriter is a http.ResponseWriter that remembers the status code sent to the client.
type ClientWriter struct {
	http.ResponseWriter

	statusCode int
}

// NewClientWriter wraps the writer. The status code is 200 until WriteHeader is called.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (c *ClientWriter) WriteHeader(code int) {
	c.statusCode = code
	c.ResponseWriter.WriteHeader(code)
}

// StatusCode returns the status code sent to the client.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
