// Command irsend sends an IR pattern through a running consumerird.
//
// Usage:
//
//	irsend [-socket path | -addr host:port] -freq 38000 560 560 560 1690 560
//	irsend -list
//
// Pattern entries are microseconds, alternating pulse and space. The exit
// status is 0 on success and 1 on any failure.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrWong99/consumerir/internal/server"
)

const defaultSocket = "/run/consumerird.sock"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("irsend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	socket := fs.String("socket", defaultSocket, "daemon unix socket")
	addr := fs.String("addr", "", "daemon TCP address; overrides -socket")
	freq := fs.Int("freq", 38000, "carrier frequency in Hz")
	list := fs.Bool("list", false, "print the supported carrier frequency ranges and exit")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	c := newClient(*addr, *socket, *timeout)
	ctx := context.Background()

	if *list {
		resp, err := c.carrierFreqs(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "irsend: %v\n", err)
			return 1
		}
		for _, r := range resp.Ranges {
			fmt.Fprintf(stdout, "%d-%d Hz\n", r.Min, r.Max)
		}
		return 0
	}

	pattern, err := parsePattern(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "irsend: %v\n", err)
		return 2
	}
	if err := c.transmit(ctx, int32(*freq), pattern); err != nil {
		fmt.Fprintf(stderr, "irsend: %v\n", err)
		return 1
	}
	return 0
}

// parsePattern accepts entries as separate arguments, comma separated, or
// both.
func parsePattern(args []string) ([]int32, error) {
	var out []int32
	for _, arg := range args {
		for f := range strings.SplitSeq(arg, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			v, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("pattern entry %q: %w", f, err)
			}
			out = append(out, int32(v))
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty pattern")
	}
	return out, nil
}

type client struct {
	base string
	http *http.Client
}

func newClient(addr, socket string, timeout time.Duration) *client {
	if addr != "" {
		return &client{base: "http://" + addr, http: &http.Client{Timeout: timeout}}
	}
	tr := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		},
	}
	return &client{base: "http://consumerird", http: &http.Client{Transport: tr, Timeout: timeout}}
}

func (c *client) transmit(ctx context.Context, freq int32, pattern []int32) error {
	body, err := json.Marshal(server.TransmitRequest{CarrierFreq: freq, Pattern: pattern})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/transmit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var st server.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if st.Status != 0 {
		return fmt.Errorf("transmit failed: status %d (%s): %s", st.Status, st.Reason, st.Error)
	}
	return nil
}

func (c *client) carrierFreqs(ctx context.Context) (*server.CarrierFreqsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/carrier-freqs", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carrier-freqs: HTTP %d", resp.StatusCode)
	}
	var out server.CarrierFreqsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
