// Command simpleton-http fetches a path from an HTTP server and prints the
// response body.
//
// Usage:
//
//	simpleton-http [-verbose] <host> <path>
//
// With -verbose the request head is printed with a "> " prefix and the
// response head with "< ".
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/vinc/simpleton/pkg/simpleton/client"
	"github.com/vinc/simpleton/pkg/simpleton/http1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run fetches args' <host> <path>. c is the client to use; nil selects a
// default one.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, c *client.Client) error {
	fs := flag.NewFlagSet("simpleton-http", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: simpleton-http [-verbose] <host> <path>")
		fs.PrintDefaults()
	}
	verbose := fs.Bool("verbose", false, "Print the request and response heads")
	timeout := fs.Duration("timeout", 30*time.Second, "Abort the request after `duration`")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return flag.ErrHelp
	}
	host, path := fs.Arg(0), fs.Arg(1)

	if c == nil {
		c = client.NewClient()
	}
	c.Timeout = *timeout

	req := http1.NewRequest(http1.MethodGet, host, path)
	if *verbose {
		printHead(stdout, "> ", []byte(req.String()))
	}

	resp, err := c.Do(ctx, host, req)
	if err != nil {
		return err
	}

	if *verbose {
		printHead(stdout, "< ", resp.RawHead)
	}
	_, err = stdout.Write(resp.Body)
	return err
}

// printHead prints each line of head, including the closing blank line,
// after prefix.
func printHead(w io.Writer, prefix string, head []byte) {
	sc := bufio.NewScanner(bytes.NewReader(head))
	for sc.Scan() {
		fmt.Fprintf(w, "%s%s\n", prefix, bytes.TrimSuffix(sc.Bytes(), []byte("\r")))
	}
}
