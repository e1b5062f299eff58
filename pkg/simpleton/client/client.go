// Package client sends a single HTTP/1.1 request over a fresh TCP
// connection and reads the response until the server closes it.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/vinc/simpleton/pkg/simpleton/http1"
)

// DefaultPort is appended to hosts given without one
const DefaultPort = "80"

var (
	// ErrEmptyHost is returned when no host is given
	ErrEmptyHost = errors.New("client: empty host")
)

// DialFunc opens the connection for one request.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client sends requests built with http1.NewRequest.
type Client struct {
	// Dial opens connections
	// Default: a net.Dialer with DialTimeout
	Dial DialFunc

	// DialTimeout bounds connection setup when Dial is nil
	// Default: 30 seconds
	DialTimeout time.Duration

	// Timeout bounds the whole exchange, 0 means none
	Timeout time.Duration
}

// Response is a response as received: the parsed head, the raw head bytes
// and the body.
type Response struct {
	Head    *http1.ResponseHead
	RawHead []byte
	Body    []byte
}

// StatusCode returns the response status code.
func (r *Response) StatusCode() int {
	return r.Head.StatusCode
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return &Client{
		DialTimeout: 30 * time.Second,
	}
}

// Address returns host with DefaultPort appended when it has no port.
func Address(host string) string {
	if strings.Contains(host, ":") {
		return host
	}
	return net.JoinHostPort(host, DefaultPort)
}

// Get sends a GET for path to host.
func (c *Client) Get(ctx context.Context, host, path string) (*Response, error) {
	return c.Do(ctx, host, http1.NewRequest(http1.MethodGet, host, path))
}

// Do writes req to host and reads the response. The body is everything
// after the head until EOF; connections are never reused.
func (c *Client) Do(ctx context.Context, host string, req *http1.Request) (*Response, error) {
	if host == "" {
		return nil, ErrEmptyHost
	}

	address := Address(host)
	conn, err := c.dial(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	if deadline, ok := c.deadline(ctx); ok {
		conn.SetDeadline(deadline)
	}

	// Unblock reads if ctx is cancelled mid-exchange
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if _, err := req.WriteTo(conn); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	br := http1.GetReader(conn)
	defer http1.PutReader(br)

	return readResponse(br)
}

func readResponse(br *bufio.Reader) (*Response, error) {
	raw, err := http1.ReadMessage(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	head, err := http1.ParseResponseHead(raw)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Response{
		Head:    head,
		RawHead: raw,
		Body:    body,
	}, nil
}

func (c *Client) dial(ctx context.Context, address string) (net.Conn, error) {
	if c.Dial != nil {
		return c.Dial(ctx, "tcp", address)
	}
	d := net.Dialer{Timeout: c.DialTimeout}
	return d.DialContext(ctx, "tcp", address)
}

func (c *Client) deadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if c.Timeout > 0 {
		t := time.Now().Add(c.Timeout)
		if !ok || t.Before(deadline) {
			return t, true
		}
	}
	return deadline, ok
}
