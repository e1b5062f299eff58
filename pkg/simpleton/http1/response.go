package http1

import (
	"bytes"
	"io"
	"strconv"
	"time"
)

// Response accumulates the status, headers and body of a reply and writes
// them in two phases: the head (status line and headers) at most once, then
// the body.
//
// State tracking:
// - Before the head is sent, status, headers and body are freely mutable
// - Once HeadSent reports true, status and headers are frozen;
//   SetHeader returns ErrHeadersAlreadyWritten and SetStatus is ignored
// - Sent reports whether the exchange is complete (Send or SendHeadOnly ran)
//
// A Response is owned by a single connection goroutine and is not safe for
// concurrent use.
type Response struct {
	StatusCode    int
	StatusMessage string

	// Date is captured when the response is created, in DateFormat
	Date string

	Header Header
	Body   []byte

	server       string
	headSent     bool
	sent         bool
	bytesWritten int64
}

// NewResponse creates a 200 OK response with no headers and an empty body.
// serverSoftware is sent in the server header; "" selects ServerSoftware.
func NewResponse(serverSoftware string) *Response {
	if serverSoftware == "" {
		serverSoftware = ServerSoftware
	}
	return &Response{
		StatusCode:    StatusOK,
		StatusMessage: StatusText(StatusOK),
		Date:          time.Now().UTC().Format(DateFormat),
		server:        serverSoftware,
	}
}

// SetStatus sets the status code and its standard reason phrase.
// Calls after the head is sent are ignored.
func (r *Response) SetStatus(code int) {
	if r.headSent {
		return
	}
	r.StatusCode = code
	r.StatusMessage = StatusText(code)
}

// SetHeader sets a response header. See Header.Set.
func (r *Response) SetHeader(name, value string) error {
	if r.headSent {
		return ErrHeadersAlreadyWritten
	}
	return r.Header.Set(name, value)
}

// GetHeader returns a response header value. See Header.Get.
func (r *Response) GetHeader(name string) (string, bool) {
	return r.Header.Get(name)
}

// SendHead writes the status line and headers followed by a blank line.
//
// content-length is computed from the body unless already set; server, date
// and connection: close are always set. The head is written in a single
// Write call. Calling SendHead again after the head was sent is a no-op.
func (r *Response) SendHead(w io.Writer) error {
	if r.headSent {
		return nil
	}
	r.headSent = true

	if !r.Header.Has(HeaderContentLength) {
		r.Header.Set(HeaderContentLength, strconv.Itoa(len(r.Body)))
	}
	r.Header.Set(HeaderServer, r.server)
	r.Header.Set(HeaderDate, r.Date)
	r.Header.Set(HeaderConnection, "close")

	var buf bytes.Buffer
	buf.Grow(128 + 64*r.Header.Len())
	r.appendStatusLine(&buf)
	writeHeaders(&buf, &r.Header)
	buf.Write(crlfBytes)

	_, err := buf.WriteTo(w)
	return err
}

// Send writes the head, if not yet sent, followed by the body.
// The body is written at most once; later calls are no-ops.
func (r *Response) Send(w io.Writer) error {
	if err := r.SendHead(w); err != nil {
		return err
	}
	if r.sent {
		return nil
	}
	r.sent = true

	if len(r.Body) == 0 {
		return nil
	}
	n, err := w.Write(r.Body)
	r.bytesWritten += int64(n)
	return err
}

// SendHeadOnly writes the head and marks the response sent without ever
// writing the body, as required for HEAD (RFC 2616 §9.4). content-length
// still reflects the body the equivalent GET would carry.
func (r *Response) SendHeadOnly(w io.Writer) error {
	r.sent = true
	return r.SendHead(w)
}

// HeadSent reports whether the status line and headers were written.
func (r *Response) HeadSent() bool {
	return r.headSent
}

// Sent reports whether Send or SendHeadOnly completed the response.
func (r *Response) Sent() bool {
	return r.sent
}

// BytesWritten returns the number of body bytes written to the wire.
func (r *Response) BytesWritten() int64 {
	return r.bytesWritten
}

func (r *Response) appendStatusLine(buf *bytes.Buffer) {
	buf.WriteString(ProtoHTTP11)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(r.StatusCode))
	buf.WriteByte(' ')
	buf.WriteString(r.StatusMessage)
	buf.Write(crlfBytes)
}
