//go:build linux

package irrc

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/MrWong99/consumerir/internal/ioctl"
)

const ioctlMagic = 'a'

// The driver declares both commands with an int-sized argument even though
// it reads the full Params struct.
var (
	cmdStart = ioctl.IOW(ioctlMagic, 0, unsafe.Sizeof(int32(0)))
	cmdStop  = ioctl.IOW(ioctlMagic, 1, unsafe.Sizeof(int32(0)))
)

type fileDevice struct {
	path string
	fd   int
}

// Open opens the driver node at path for reading and writing and takes an
// advisory exclusive lock on it. The lock only excludes other processes
// that also lock the node; the driver itself accepts any number of opens.
// A node locked elsewhere fails with [ErrInUse].
func Open(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("irrc: open %q: %w", path, err)
	}
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("irrc: open %q: %w", path, ErrInUse)
		}
		return nil, fmt.Errorf("irrc: lock %q: %w", path, err)
	}
	return &fileDevice{path: path, fd: fd}, nil
}

func (d *fileDevice) Start(p Params) error {
	if err := ioctl.Do(d.fd, cmdStart, unsafe.Pointer(&p)); err != nil {
		return fmt.Errorf("irrc: start %d Hz: %w", p.Frequency, err)
	}
	return nil
}

func (d *fileDevice) Stop(p Params) error {
	if err := ioctl.Do(d.fd, cmdStop, unsafe.Pointer(&p)); err != nil {
		return fmt.Errorf("irrc: stop: %w", err)
	}
	return nil
}

func (d *fileDevice) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	if err != nil {
		return fmt.Errorf("irrc: close %q: %w", d.path, err)
	}
	return nil
}
