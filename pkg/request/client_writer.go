package request

import "net/http"

// ClientWriter is a http.ResponseWriter that remembers the status code written to it.
type ClientWriter struct {
	http.ResponseWriter
	statusCode int
}

// NewClientWriter wraps w. The status code defaults to 200 when the handler never writes a header.
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

// StatusCode returns the status code of the response.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
