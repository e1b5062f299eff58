package http1

import "errors"

// Parser errors
var (
	// ErrInvalidRequestLine indicates the request line is malformed.
	// Request line format: METHOD SP URI SP VERSION
	ErrInvalidRequestLine = errors.New("http1: malformed request line")

	// ErrInvalidStatusLine indicates the status line of a response is malformed
	ErrInvalidStatusLine = errors.New("http1: malformed status line")

	// ErrInvalidStatusCode indicates a status code outside 100-599
	ErrInvalidStatusCode = errors.New("http1: invalid status code")

	// ErrInvalidHeader indicates a header name or value containing CR or LF,
	// or an empty header name
	ErrInvalidHeader = errors.New("http1: invalid HTTP header")

	// ErrHeadTooLarge indicates the request line and headers exceed MaxHeadBytes
	ErrHeadTooLarge = errors.New("http1: message head too large")

	// ErrEmptyMessage indicates the peer closed the stream before sending anything
	ErrEmptyMessage = errors.New("http1: empty message")
)

// Response errors
var (
	// ErrHeadersAlreadyWritten indicates a header mutation after the head was sent
	ErrHeadersAlreadyWritten = errors.New("http1: headers already written")
)
