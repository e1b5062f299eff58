package http1

import "strings"

// ResponseHead is a parsed status line plus headers, as read by the client.
type ResponseHead struct {
	Version       string
	StatusCode    int
	StatusMessage string
	Header        Header
}

// ParseResponseHead parses "VERSION SP CODE SP REASON" followed by headers.
// The reason phrase may contain spaces and may be empty. Header lines follow
// the same rules as ParseRequest.
func ParseResponseHead(raw []byte) (*ResponseHead, error) {
	line, rest := nextLine(raw)

	fields := strings.SplitN(string(line), " ", 3)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return nil, ErrInvalidStatusLine
	}
	code, err := parseStatusCode(fields[1])
	if err != nil {
		return nil, err
	}

	head := &ResponseHead{
		Version:    fields[0],
		StatusCode: code,
	}
	if len(fields) == 3 {
		head.StatusMessage = fields[2]
	}
	parseHeaders(&head.Header, rest)
	return head, nil
}
