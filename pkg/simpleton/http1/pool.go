package http1

import (
	"bufio"
	"io"
	"sync"
)

// DefaultBufferSize is the size of pooled connection read buffers
const DefaultBufferSize = 4096

var bufioReaderPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewReaderSize(nil, DefaultBufferSize)
	},
}

// GetReader returns a pooled bufio.Reader reading from r.
// Return it with PutReader once the message head has been read.
func GetReader(r io.Reader) *bufio.Reader {
	br := bufioReaderPool.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

// PutReader returns br to the pool. br must not be used afterwards.
func PutReader(br *bufio.Reader) {
	if br == nil {
		return
	}
	br.Reset(nil) // Drop the reference to the connection
	bufioReaderPool.Put(br)
}
