// Package ioctl encodes Linux ioctl request numbers and issues the raw
// system call for the character devices this HAL drives.
//
// The encoding follows the generic asm-generic/ioctl.h layout used on arm,
// arm64 and x86: 8 bits of command number, 8 bits of type, 14 bits of
// argument size and 2 bits of direction.
package ioctl

const (
	nrBits   = 8
	typeBits = 8
	sizeBits = 14

	nrShift   = 0
	typeShift = nrShift + nrBits
	sizeShift = typeShift + typeBits
	dirShift  = sizeShift + sizeBits

	dirNone  = 0
	dirWrite = 1
	dirRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<dirShift | typ<<typeShift | nr<<nrShift | size<<sizeShift
}

// IO returns the request number for a command without an argument.
func IO(typ, nr uintptr) uintptr { return ioc(dirNone, typ, nr, 0) }

// IOW returns the request number for a command that writes size bytes to
// the driver.
func IOW(typ, nr, size uintptr) uintptr { return ioc(dirWrite, typ, nr, size) }

// IOR returns the request number for a command that reads size bytes from
// the driver.
func IOR(typ, nr, size uintptr) uintptr { return ioc(dirRead, typ, nr, size) }

// IOWR returns the request number for a bidirectional command.
func IOWR(typ, nr, size uintptr) uintptr { return ioc(dirRead|dirWrite, typ, nr, size) }
