package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/MrWong99/consumerir/internal/server"
	"github.com/MrWong99/consumerir/pkg/consumerir"
	"github.com/MrWong99/consumerir/pkg/consumerir/mock"
)

func TestParsePattern(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args    []string
		want    []int32
		wantErr bool
	}{
		{[]string{"560", "560", "1690"}, []int32{560, 560, 1690}, false},
		{[]string{"560,560", " 1690 ,560"}, []int32{560, 560, 1690, 560}, false},
		{[]string{"560,,560,"}, []int32{560, 560}, false},
		{nil, nil, true},
		{[]string{"560", "x"}, nil, true},
		{[]string{"99999999999"}, nil, true},
	}
	for _, tc := range tests {
		got, err := parsePattern(tc.args)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parsePattern(%q) = %v, want error", tc.args, got)
			}
			continue
		}
		if err != nil || !slices.Equal(got, tc.want) {
			t.Errorf("parsePattern(%q) = %v, %v; want %v", tc.args, got, err, tc.want)
		}
	}
}

func newDaemon(t *testing.T, dev consumerir.Device) string {
	t.Helper()
	mux := http.NewServeMux()
	server.New(dev).Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://")
}

func TestRun_Transmit(t *testing.T) {
	t.Parallel()
	dev := &mock.Device{}
	addr := newDaemon(t, dev)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-addr", addr, "-freq", "36000", "560,560", "1690"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit = %d, stderr %q", code, stderr.String())
	}
	calls := dev.Calls()
	if len(calls) != 1 || calls[0].CarrierFreq != 36000 || !slices.Equal(calls[0].Pattern, []int32{560, 560, 1690}) {
		t.Errorf("calls = %+v", calls)
	}
}

func TestRun_TransmitFailure(t *testing.T) {
	t.Parallel()
	dev := &mock.Device{TransmitError: &consumerir.TransmitError{Reason: consumerir.ReasonDeviceOpen}}
	addr := newDaemon(t, dev)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-addr", addr, "560"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "status -2 (device_open)") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_List(t *testing.T) {
	t.Parallel()
	addr := newDaemon(t, &mock.Device{})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-addr", addr, "-list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit = %d, stderr %q", code, stderr.String())
	}
	if got := stdout.String(); got != "23000-1200000 Hz\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-addr", "127.0.0.1:1"}, &stdout, &stderr); code != 2 {
		t.Errorf("empty pattern exit = %d, want 2", code)
	}
	if code := run([]string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Errorf("bad flag exit = %d, want 2", code)
	}
}

func TestClient_UnreachableDaemon(t *testing.T) {
	t.Parallel()
	c := newClient("", "/nonexistent/consumerird.sock", 0)
	if err := c.transmit(context.Background(), 38000, []int32{1}); err == nil {
		t.Error("transmit to a missing socket succeeded")
	}
}
