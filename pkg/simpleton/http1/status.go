package http1

import "strconv"

// Status codes sent by the built-in handlers
const (
	StatusOK               = 200
	StatusMovedPermanently = 301
	StatusBadRequest       = 400
	StatusNotFound         = 404
	StatusInternalError    = 500
	StatusNotImplemented   = 501
)

// StatusText returns the reason phrase for an HTTP status code.
// Based on RFC 7231 Section 6. Unknown codes return "Unknown".
func StatusText(code int) string {
	switch code {
	// 1xx Informational
	case 100:
		return "Continue"
	case 101:
		return "Switching Protocols"

	// 2xx Success
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 202:
		return "Accepted"
	case 204:
		return "No Content"
	case 206:
		return "Partial Content"

	// 3xx Redirection
	case 300:
		return "Multiple Choices"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 303:
		return "See Other"
	case 304:
		return "Not Modified"
	case 307:
		return "Temporary Redirect"
	case 308:
		return "Permanent Redirect"

	// 4xx Client Error
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 413:
		return "Payload Too Large"
	case 414:
		return "URI Too Long"
	case 431:
		return "Request Header Fields Too Large"

	// 5xx Server Error
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	case 505:
		return "HTTP Version Not Supported"

	default:
		return "Unknown"
	}
}

// parseStatusCode parses a three-digit status code in the 1xx-5xx range.
func parseStatusCode(s string) (int, error) {
	code, err := strconv.Atoi(s)
	if err != nil || len(s) != 3 || code < 100 || code > 599 {
		return 0, ErrInvalidStatusCode
	}
	return code, nil
}
