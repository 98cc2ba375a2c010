package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
)

// Listen opens a unix socket at socketPath, or a TCP listener on addr when
// socketPath is empty. A stale socket file left by a previous run is
// removed first; any other file at that path is an error.
func Listen(addr, socketPath string) (net.Listener, error) {
	if socketPath == "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("server: listen %s: %w", addr, err)
		}
		return ln, nil
	}

	info, err := os.Lstat(socketPath)
	switch {
	case err == nil && info.Mode()&fs.ModeSocket != 0:
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("server: remove stale socket: %w", err)
		}
	case err == nil:
		return nil, fmt.Errorf("server: %s exists and is not a socket", socketPath)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("server: stat %s: %w", socketPath, err)
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("server: listen %s: %w", socketPath, err)
	}
	return ln, nil
}
