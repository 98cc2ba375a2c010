//go:build linux

package ioctl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Do issues request req on fd with arg as the argument pointer.
func Do(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
