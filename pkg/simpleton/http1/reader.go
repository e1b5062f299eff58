package http1

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// ReadMessage reads a message head from r, line by line, up to and including
// the first blank line.
//
// A stream that ends before the blank line yields whatever was read so far;
// ErrEmptyMessage is returned if it ended before any byte arrived. Any other
// read error is returned as is. The head is capped at MaxHeadBytes, beyond
// which ErrHeadTooLarge is returned.
//
// Bytes after the blank line stay buffered in r.
func ReadMessage(r *bufio.Reader) ([]byte, error) {
	var buf []byte
	lineStart := 0

	for {
		chunk, err := r.ReadSlice('\n')
		buf = append(buf, chunk...)

		if len(buf) > MaxHeadBytes {
			return nil, ErrHeadTooLarge
		}

		switch {
		case err == nil:
			// A full line is buffered: buf[lineStart:]
			line := bytes.TrimRight(buf[lineStart:], "\r\n")
			if len(line) == 0 {
				return buf, nil
			}
			lineStart = len(buf)
		case errors.Is(err, bufio.ErrBufferFull):
			// Line longer than the reader buffer, keep accumulating
		case errors.Is(err, io.EOF):
			if len(buf) == 0 {
				return nil, ErrEmptyMessage
			}
			return buf, nil
		default:
			return nil, err
		}
	}
}
