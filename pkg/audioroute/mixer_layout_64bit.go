//go:build linux && (amd64 || arm64)

package audioroute

// ctlLongSize is sizeof(long) in the control ABI.
const ctlLongSize = 8

// ctlPtr holds a user pointer passed inside a control struct.
type ctlPtr = uint64

// elemList is struct snd_ctl_elem_list, 80 bytes.
type elemList struct {
	Offset uint32
	Space  uint32
	Used   uint32
	Count  uint32
	Pids   ctlPtr
	_      [50]byte
	_      [6]byte // tail padding to 8
}

// elemValue is struct snd_ctl_elem_value, 1224 bytes. The value union is
// 128 longs.
type elemValue struct {
	ID       elemID
	Indirect uint32
	_        uint32
	Value    [128 * ctlLongSize]byte
	_        [128]byte
}
